package authz

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"vivacondo-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type condoFinderStub struct {
	condos map[int64]*domain.Condominium
	err    error
	calls  int
}

func (f *condoFinderStub) FindCondominium(_ context.Context, id int64) (*domain.Condominium, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.condos[id], nil
}

func activeCondo(id int64) *domain.Condominium {
	return &domain.Condominium{ID: id, Name: "Residencial Teste", IsActive: true}
}

func sindicoLinkedTo(ids ...int64) *domain.User {
	return &domain.User{ID: 10, Role: domain.RoleSindico, LinkedCondominiumIDs: ids}
}

func moradorBoundTo(id int64) *domain.User {
	return &domain.User{
		ID:            20,
		Role:          domain.RoleMorador,
		CondominiumID: sql.NullInt64{Int64: id, Valid: true},
	}
}

func requireRejection(t *testing.T, err error, reason Reason, status int) {
	t.Helper()
	rej, ok := AsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, reason, rej.Reason)
	assert.Equal(t, status, rej.HTTPStatus())
}

func TestResolveRejectsMissingSelector(t *testing.T) {
	r := NewResolver(&condoFinderStub{}, zap.NewNop())

	for _, declared := range []string{"", "   "} {
		_, err := r.Resolve(context.Background(), moradorBoundTo(3), declared)
		requireRejection(t, err, ReasonMissingTenantSelector, http.StatusUnprocessableEntity)
	}
}

func TestResolveRejectsNonNumericSelector(t *testing.T) {
	r := NewResolver(&condoFinderStub{}, zap.NewNop())

	_, err := r.Resolve(context.Background(), moradorBoundTo(3), "abc")
	requireRejection(t, err, ReasonTenantNotFound, http.StatusUnprocessableEntity)
}

func TestResolveFullAccessSkipsLookup(t *testing.T) {
	finder := &condoFinderStub{}
	r := NewResolver(finder, zap.NewNop())
	suporte := &domain.User{ID: 1, Role: domain.RoleSuporte}

	// The id does not exist anywhere; suporte still gets it verbatim so
	// suspended condominiums stay administrable.
	tenant, err := r.Resolve(context.Background(), suporte, "999")
	require.NoError(t, err)
	assert.Equal(t, int64(999), tenant.CondominiumID)
	assert.Nil(t, tenant.Condominium)
	assert.Zero(t, finder.calls, "full-access resolution must not hit storage")
}

func TestResolveOwnerLinkedSet(t *testing.T) {
	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{
		5: activeCondo(5),
		7: activeCondo(7),
		9: activeCondo(9),
	}}
	r := NewResolver(finder, zap.NewNop())
	owner := sindicoLinkedTo(5, 9)

	tenant, err := r.Resolve(context.Background(), owner, "9")
	require.NoError(t, err)
	assert.Equal(t, int64(9), tenant.CondominiumID)
	require.NotNil(t, tenant.Condominium)
	assert.Equal(t, int64(9), tenant.Condominium.ID)

	// 7 exists and is active, but the owner is not linked to it.
	_, err = r.Resolve(context.Background(), owner, "7")
	requireRejection(t, err, ReasonTenantAccessDenied, http.StatusForbidden)
}

func TestResolveOwnerWithoutLinksIsDenied(t *testing.T) {
	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{5: activeCondo(5)}}
	r := NewResolver(finder, zap.NewNop())

	_, err := r.Resolve(context.Background(), sindicoLinkedTo(), "5")
	requireRejection(t, err, ReasonTenantAccessDenied, http.StatusForbidden)
}

func TestResolveSingleBoundRoles(t *testing.T) {
	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{
		3: activeCondo(3),
		4: activeCondo(4),
	}}
	r := NewResolver(finder, zap.NewNop())

	tenant, err := r.Resolve(context.Background(), moradorBoundTo(3), " 3 ")
	require.NoError(t, err)
	assert.Equal(t, int64(3), tenant.CondominiumID)

	_, err = r.Resolve(context.Background(), moradorBoundTo(3), "4")
	requireRejection(t, err, ReasonTenantAccessDenied, http.StatusForbidden)

	funcionario := &domain.User{
		ID:            21,
		Role:          domain.RoleFuncionario,
		CondominiumID: sql.NullInt64{Int64: 3, Valid: true},
	}
	_, err = r.Resolve(context.Background(), funcionario, "3")
	require.NoError(t, err)
}

func TestResolveBoundUserWithoutCondominium(t *testing.T) {
	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{3: activeCondo(3)}}
	r := NewResolver(finder, zap.NewNop())
	unbound := &domain.User{ID: 22, Role: domain.RoleMorador}

	_, err := r.Resolve(context.Background(), unbound, "3")
	requireRejection(t, err, ReasonTenantAccessDenied, http.StatusForbidden)
}

func TestResolveInactiveCondominium(t *testing.T) {
	inactive := activeCondo(3)
	inactive.IsActive = false
	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{3: inactive}}
	r := NewResolver(finder, zap.NewNop())

	// Same wording as a nonexistent condominium so ids cannot be probed.
	_, err := r.Resolve(context.Background(), moradorBoundTo(3), "3")
	requireRejection(t, err, ReasonTenantNotFound, http.StatusUnprocessableEntity)
}

func TestResolveExpiredCondominium(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	restore := timeNow
	timeNow = func() time.Time { return now }
	defer func() { timeNow = restore }()

	expired := activeCondo(3)
	expired.ExpiresAt = sql.NullTime{Time: now.Add(-time.Hour), Valid: true}
	current := activeCondo(4)
	current.ExpiresAt = sql.NullTime{Time: now.Add(time.Hour), Valid: true}

	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{3: expired, 4: current}}
	r := NewResolver(finder, zap.NewNop())

	_, err := r.Resolve(context.Background(), moradorBoundTo(3), "3")
	requireRejection(t, err, ReasonTenantNotFound, http.StatusUnprocessableEntity)

	_, err = r.Resolve(context.Background(), moradorBoundTo(4), "4")
	require.NoError(t, err)
}

func TestResolveUnknownRole(t *testing.T) {
	finder := &condoFinderStub{condos: map[int64]*domain.Condominium{3: activeCondo(3)}}
	r := NewResolver(finder, zap.NewNop())
	stranger := &domain.User{ID: 30, Role: "gerente"}

	_, err := r.Resolve(context.Background(), stranger, "3")
	requireRejection(t, err, ReasonTenantAccessDenied, http.StatusForbidden)
}

func TestResolveStorageFailureIsNotARejection(t *testing.T) {
	finder := &condoFinderStub{err: errors.New("connection refused")}
	r := NewResolver(finder, zap.NewNop())

	_, err := r.Resolve(context.Background(), moradorBoundTo(3), "3")
	require.Error(t, err)
	_, ok := AsRejection(err)
	assert.False(t, ok, "infrastructure failures must surface as plain errors")
}
