package authz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vivacondo-api/internal/domain"

	"go.uber.org/zap"
)

// CondominiumFinder is the slice of storage the resolver needs.
// Implementations return (nil, nil) when the condominium does not exist;
// an error means the lookup itself failed (infrastructure, not a
// rejection).
type CondominiumFinder interface {
	FindCondominium(ctx context.Context, id int64) (*domain.Condominium, error)
}

// ResolvedTenant is the request-scoped outcome of tenant resolution.
// It is established once per request by the middleware and threaded
// through the request context; never persisted, never re-resolved.
type ResolvedTenant struct {
	CondominiumID int64
	// Condominium is nil for full-access callers: their resolution
	// skips the lookup on purpose.
	Condominium *domain.Condominium
}

// Resolver determines which condominium a request operates against and
// whether the caller is entitled to it. This is the highest-risk piece
// of the service: a mistake here leaks data across condominiums.
type Resolver struct {
	condos CondominiumFinder
	logger *zap.Logger
}

func NewResolver(condos CondominiumFinder, logger *zap.Logger) *Resolver {
	return &Resolver{condos: condos, logger: logger}
}

// Resolve validates the declared condominium selector (the
// X-Condominium-Id header value) against the caller.
//
// suporte accepts the declared id verbatim: no existence, active or
// ownership check. That is a deliberate, narrow escalation needed for
// administrative reactivation of suspended condominiums; every other
// category re-validates the condominium's active state on every
// request. An expired subscription counts as inactive here.
func (r *Resolver) Resolve(ctx context.Context, caller *domain.User, declared string) (*ResolvedTenant, error) {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return nil, reject(ReasonMissingTenantSelector)
	}

	// The header arrives as text while ids are numeric; compare by
	// value after normalization, never by raw string equality.
	id, err := strconv.ParseInt(declared, 10, 64)
	if err != nil {
		return nil, reject(ReasonTenantNotFound)
	}

	category := Classify(caller.Role)

	if category == RoleFullAccess {
		return &ResolvedTenant{CondominiumID: id}, nil
	}

	condo, err := r.condos.FindCondominium(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load condominium %d: %w", id, err)
	}
	if condo == nil || !condo.IsActive || condo.Expired(timeNow()) {
		return nil, reject(ReasonTenantNotFound)
	}

	switch category {
	case RoleTenantOwner:
		// A sindico with zero linked condominiums is rejected, not a
		// crash.
		for _, linked := range caller.LinkedCondominiumIDs {
			if linked == id {
				return &ResolvedTenant{CondominiumID: id, Condominium: condo}, nil
			}
		}
		r.warnDenied(caller, id, "not linked to condominium")
		return nil, reject(ReasonTenantAccessDenied)

	case RoleSubScoped, RoleMember, RoleStaff:
		if caller.CondominiumID.Valid && caller.CondominiumID.Int64 == id {
			return &ResolvedTenant{CondominiumID: id, Condominium: condo}, nil
		}
		r.warnDenied(caller, id, "bound to a different condominium")
		return nil, reject(ReasonTenantAccessDenied)

	default:
		r.warnDenied(caller, id, "unknown role")
		return nil, reject(ReasonTenantAccessDenied)
	}
}

func (r *Resolver) warnDenied(caller *domain.User, condominiumID int64, note string) {
	r.logger.Warn("condominium access denied",
		zap.Int64("user_id", caller.ID),
		zap.String("role", caller.Role),
		zap.Int64("condominium_id", condominiumID),
		zap.String("note", note),
	)
}
