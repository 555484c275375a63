package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"
	"vivacondo-api/internal/service"
	"vivacondo-api/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "segredo123"

// apiFixture wires the real middleware, services and router over memory
// repositories, so requests exercise the same authorization chain as
// production.
type apiFixture struct {
	router *Router
	users  *repository.MemoryUsersRepo
	perms  *repository.MemoryPermissionsRepo
	condos *repository.MemoryCondominiumsRepo

	sindico *domain.User
	sub     *domain.User
	morador *domain.User
	suporte *domain.User
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	log := zap.NewNop()

	users := repository.NewMemoryUsersRepo()
	condos := repository.NewMemoryCondominiumsRepo()
	perms := repository.NewMemoryPermissionsRepo()
	deliveries := repository.NewMemoryDeliveriesRepo()
	employees := repository.NewMemoryEmployeesRepo()
	audit := repository.NewMemoryAuditRepo()

	condos.Seed(domain.Condominium{ID: 1, Name: "Residencial Aurora", IsActive: true})
	condos.Seed(domain.Condominium{ID: 2, Name: "Residencial Horizonte", IsActive: true})

	sessions := session.NewStore(session.NewMemoryKV())
	auditor := service.NewAuditor(audit, log)

	authSvc := service.NewAuthService(users, condos, sessions, log)
	userSvc := service.NewUserService(users, perms, employees, auditor, log)
	condoSvc := service.NewCondominiumService(condos, log)
	auditSvc := service.NewAuditService(audit)
	exportSvc := service.NewExportService(users, deliveries, log)

	mw := NewMiddleware(authSvc, userSvc, authz.NewResolver(condos, log), authz.NewGuard(perms, log), log)
	router := NewRouter(log)
	router.RegisterAuthRoutes(mw, NewAuthHandler(authSvc, log))
	router.RegisterUserRoutes(mw, NewUserHandler(userSvc, exportSvc, log))
	router.RegisterCondominiumRoutes(mw, NewCondominiumHandler(condoSvc, log))
	router.RegisterAuditRoutes(mw, NewAuditHandler(auditSvc, log))

	f := &apiFixture{router: router, users: users, perms: perms, condos: condos}
	f.sindico = f.seedUser(t, "sindico@example.com", domain.RoleSindico, 1)
	f.sub = f.seedUser(t, "sub@example.com", domain.RoleSubSindico, 1)
	f.morador = f.seedUser(t, "morador@example.com", domain.RoleMorador, 1)
	f.suporte = f.seedUser(t, "suporte@example.com", domain.RoleSuporte, 0)

	require.NoError(t, perms.EnsureDefault(context.Background(), f.sub.ID))
	return f
}

func (f *apiFixture) seedUser(t *testing.T, email, role string, condominiumID int64) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Name:          "Conta",
		LastName:      "Teste",
		Email:         email,
		Role:          role,
		PasswordHash:  hash,
		AccountStatus: true,
	}
	if condominiumID != 0 {
		user.CondominiumID = sql.NullInt64{Int64: condominiumID, Valid: true}
	}
	ctx := context.Background()
	id, err := f.users.CreateUser(ctx, user)
	require.NoError(t, err)
	user.ID = id
	if role == domain.RoleSindico || role == domain.RoleSubSindico {
		require.NoError(t, f.users.LinkCondominium(ctx, id, condominiumID))
	}
	return user
}

func (f *apiFixture) login(t *testing.T, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, testPassword)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var envelope struct {
		Result struct {
			Token string `json:"token"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Result.Token)
	return envelope.Result.Token
}

func (f *apiFixture) do(method, path, token, condominiumID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if condominiumID != "" {
		req.Header.Set(CondominiumHeader, condominiumID)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"sindico@example.com","password":"errada"}`))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var envelope struct {
		Code    int    `json:"code"`
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, ResultError, envelope.Code)
	assert.Equal(t, "E-mail ou senha incorretos.", envelope.Message)

	token := f.login(t, "sindico@example.com")
	assert.NotEmpty(t, token)
}

func TestRoutesRequireBearerToken(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/users", "", "1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/users", "token-invalido", "1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutesRequireCondominiumHeader(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "sindico@example.com")

	rec := f.do(http.MethodGet, "/api/users", token, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(http.MethodGet, "/api/users", token, "abc")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestForeignCondominiumIsRejected(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "morador@example.com")

	// condominium 2 exists and is active; the morador is bound to 1
	rec := f.do(http.MethodGet, "/api/users", token, "2")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var envelope struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Você não tem permissão para acessar este condomínio.", envelope.Message)
}

func TestPermissionDeniedByDefault(t *testing.T) {
	f := newAPIFixture(t)

	for _, email := range []string{"morador@example.com", "sub@example.com"} {
		token := f.login(t, email)
		rec := f.do(http.MethodGet, "/api/users", token, "1")
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s must start with no grants", email)
	}
}

func TestSindicoBypassesPermissionMatrix(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "sindico@example.com")

	rec := f.do(http.MethodGet, "/api/users", token, "1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Code   int `json:"code"`
		Result struct {
			Total int `json:"total"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, ResultSuccess, envelope.Code)
	assert.Equal(t, 3, envelope.Result.Total, "sindico, sub_sindico and morador live in condominium 1")
}

func TestGrantedPermissionOpensRoute(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "sub@example.com")

	rec := f.do(http.MethodGet, "/api/users", token, "1")
	require.Equal(t, http.StatusForbidden, rec.Code)

	_, err := f.perms.MergeAndSave(context.Background(), f.sub.ID, authz.PermissionSet{
		authz.ModuleResidents: {authz.ActionView: true},
	})
	require.NoError(t, err)

	rec = f.do(http.MethodGet, "/api/users", token, "1")
	assert.Equal(t, http.StatusOK, rec.Code)

	// the grant is cell-level: deliveries stay closed
	rec = f.do(http.MethodGet, "/api/deliveries", token, "1")
	assert.Equal(t, http.StatusNotFound, rec.Code, "delivery routes are not registered in this fixture")
}

func TestSelfAccessOverride(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "sub@example.com")

	// own record: readable without any residents grant
	rec := f.do(http.MethodGet, fmt.Sprintf("/api/users/%d", f.sub.ID), token, "1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// someone else's record: still forbidden
	rec = f.do(http.MethodGet, fmt.Sprintf("/api/users/%d", f.morador.ID), token, "1")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the carve-out never applies to deletion, even of the own record
	rec = f.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", f.sub.ID), token, "1")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCondominiumRoutesAreSuporteOnly(t *testing.T) {
	f := newAPIFixture(t)

	sindicoToken := f.login(t, "sindico@example.com")
	rec := f.do(http.MethodGet, "/api/condominiums", sindicoToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// suporte needs no condominium header here: the condominium is the
	// subject of the route, not its scope
	suporteToken := f.login(t, "suporte@example.com")
	rec = f.do(http.MethodGet, "/api/condominiums", suporteToken, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuditFeedIsOwnerOnly(t *testing.T) {
	f := newAPIFixture(t)

	moradorToken := f.login(t, "morador@example.com")
	rec := f.do(http.MethodGet, "/api/audit-logs", moradorToken, "1")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	sindicoToken := f.login(t, "sindico@example.com")
	rec = f.do(http.MethodGet, "/api/audit-logs", sindicoToken, "1")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCondominiumHeaderIsRemembered(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "sindico@example.com")

	rec := f.do(http.MethodGet, "/api/users", token, "1")
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.users.GetUserByID(context.Background(), f.sindico.ID)
	require.NoError(t, err)
	require.True(t, stored.LastViewedCondominiumID.Valid)
	assert.Equal(t, int64(1), stored.LastViewedCondominiumID.Int64)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	f := newAPIFixture(t)
	token := f.login(t, "sindico@example.com")

	rec := f.do(http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/users", token, "1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
