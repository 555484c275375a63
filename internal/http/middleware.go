package httpapi

import (
	"net/http"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/service"

	"go.uber.org/zap"
)

// Middleware wires the authorization chain in front of handlers:
// RequireAuth -> RequireCondominium -> RequirePermission. Each stage
// stores its outcome in the request context exactly once.
type Middleware struct {
	auth     service.AuthService
	users    service.UserService
	resolver *authz.Resolver
	guard    *authz.Guard
	logger   *zap.Logger
}

func NewMiddleware(auth service.AuthService, users service.UserService, resolver *authz.Resolver, guard *authz.Guard, logger *zap.Logger) *Middleware {
	return &Middleware{
		auth:     auth,
		users:    users,
		resolver: resolver,
		guard:    guard,
		logger:   logger,
	}
}

// RequireAuth resolves the bearer token to a user. Missing or stale
// tokens answer 401 without distinguishing the two.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := m.auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			m.logger.Error("authentication lookup failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Fail("Erro interno."))
			return
		}
		if caller == nil {
			rej := &authz.Rejection{Reason: authz.ReasonUnauthenticated}
			writeJSON(w, rej.HTTPStatus(), Fail(rej.Message()))
			return
		}
		next(w, r.WithContext(withCaller(r.Context(), caller)))
	}
}

// RequireCondominium resolves the X-Condominium-Id header against the
// caller and pins the outcome to the request context. The declared id
// is validated here once; nothing downstream re-resolves it.
func (m *Middleware) RequireCondominium(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		tenant, err := m.resolver.Resolve(r.Context(), caller, r.Header.Get(CondominiumHeader))
		if err != nil {
			m.writeAuthzError(w, err)
			return
		}

		// Remember where the user is working so the frontend can
		// preselect it next login. Best effort.
		if !caller.LastViewedCondominiumID.Valid || caller.LastViewedCondominiumID.Int64 != tenant.CondominiumID {
			if err := m.users.RememberCondominium(r.Context(), caller.ID, tenant.CondominiumID); err != nil {
				m.logger.Warn("failed to remember condominium",
					zap.Int64("user_id", caller.ID),
					zap.Error(err),
				)
			}
		}

		next(w, r.WithContext(withTenant(r.Context(), tenant)))
	}
}

// RequirePermission checks action on module for the caller. Assumes
// RequireAuth and RequireCondominium already ran.
func (m *Middleware) RequirePermission(module authz.Module, action authz.Action, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.guard.Authorize(r.Context(), CallerFrom(r.Context()), module, action); err != nil {
			m.writeAuthzError(w, err)
			return
		}
		next(w, r)
	}
}

// RequirePermissionOrSelf allows the request either through the normal
// permission check or because the target of the route is the caller's
// own record. idFromPath extracts the target user id; routes that are
// not self-service must not use this variant.
func (m *Middleware) RequirePermissionOrSelf(module authz.Module, action authz.Action, idFromPath func(r *http.Request) (int64, bool), next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if id, ok := idFromPath(r); ok && authz.PermitSelfAccess(caller, id) {
			next(w, r)
			return
		}
		if err := m.guard.Authorize(r.Context(), caller, module, action); err != nil {
			m.writeAuthzError(w, err)
			return
		}
		next(w, r)
	}
}

// RequireSuporte restricts platform-level routes (condominium
// management) to the full-access role.
func (m *Middleware) RequireSuporte(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if caller == nil || authz.Classify(caller.Role) != authz.RoleFullAccess {
			rej := &authz.Rejection{Reason: authz.ReasonPermissionDenied}
			writeJSON(w, rej.HTTPStatus(), Fail(rej.Message()))
			return
		}
		next(w, r)
	}
}

// RequireOwnerOrSuporte restricts a route to sindico and suporte
// (the audit feed).
func (m *Middleware) RequireOwnerOrSuporte(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := CallerFrom(r.Context())
		if caller == nil || !authz.Classify(caller.Role).HasImplicitFullPermissions() {
			rej := &authz.Rejection{Reason: authz.ReasonPermissionDenied}
			writeJSON(w, rej.HTTPStatus(), Fail(rej.Message()))
			return
		}
		next(w, r)
	}
}

func (m *Middleware) writeAuthzError(w http.ResponseWriter, err error) {
	if rej, ok := authz.AsRejection(err); ok {
		writeJSON(w, rej.HTTPStatus(), Fail(rej.Message()))
		return
	}
	m.logger.Error("authorization infrastructure failure", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Fail("Erro interno."))
}

// Chain applies the standard stack for a condominium-scoped,
// permission-guarded route.
func (m *Middleware) Chain(module authz.Module, action authz.Action, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(m.RequireCondominium(m.RequirePermission(module, action, next)))
}

// ChainSelf is Chain with the self-access carve-out.
func (m *Middleware) ChainSelf(module authz.Module, action authz.Action, idFromPath func(r *http.Request) (int64, bool), next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(m.RequireCondominium(m.RequirePermissionOrSelf(module, action, idFromPath, next)))
}
