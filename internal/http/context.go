package httpapi

import (
	"context"
	"net/http"
	"strings"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
)

type contextKey int

const (
	callerKey contextKey = iota
	tenantKey
)

// CondominiumHeader is the tenant selector every scoped request must
// carry.
const CondominiumHeader = "X-Condominium-Id"

func withCaller(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, callerKey, u)
}

// CallerFrom returns the authenticated user, or nil before RequireAuth
// ran.
func CallerFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(callerKey).(*domain.User)
	return u
}

func withTenant(ctx context.Context, t *authz.ResolvedTenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// TenantFrom returns the tenant resolved once by RequireCondominium.
// Handlers must read the condominium id from here, never from the raw
// header.
func TenantFrom(ctx context.Context) *authz.ResolvedTenant {
	t, _ := ctx.Value(tenantKey).(*authz.ResolvedTenant)
	return t
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
