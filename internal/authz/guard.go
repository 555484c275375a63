package authz

import (
	"context"
	"fmt"

	"vivacondo-api/internal/domain"

	"go.uber.org/zap"
)

// PermissionLoader fetches the stored sparse override for one user.
// Implementations return an empty set when no row exists: a sub_sindico
// without a stored record simply has every default (deny).
type PermissionLoader interface {
	PermissionSetForUser(ctx context.Context, userID int64) (PermissionSet, error)
}

// Guard gives the final allow/deny answer for "action A on module M".
// It assumes tenant resolution already ran; it never looks at the
// condominium itself.
type Guard struct {
	perms  PermissionLoader
	logger *zap.Logger
}

func NewGuard(perms PermissionLoader, logger *zap.Logger) *Guard {
	return &Guard{perms: perms, logger: logger}
}

// Authorize returns nil when the caller may perform action on module,
// or a *Rejection with ReasonPermissionDenied. suporte and sindico are
// allowed unconditionally: they carry no stored permission set, and
// even a corrupted one would be ignored. Everyone else goes through
// merge-with-defaults, so absent data denies instead of failing.
func (g *Guard) Authorize(ctx context.Context, caller *domain.User, module Module, action Action) error {
	category := Classify(caller.Role)

	if category == RoleUnknown {
		g.logger.Warn("permission denied for unknown role",
			zap.Int64("user_id", caller.ID),
			zap.String("role", caller.Role),
		)
		return reject(ReasonPermissionDenied)
	}

	if category.HasImplicitFullPermissions() {
		return nil
	}

	stored, err := g.perms.PermissionSetForUser(ctx, caller.ID)
	if err != nil {
		return fmt.Errorf("failed to load permissions for user %d: %w", caller.ID, err)
	}

	effective := Merge(DefaultMatrix(), stored)
	if effective[module][action] {
		return nil
	}

	g.logger.Warn("permission denied",
		zap.Int64("user_id", caller.ID),
		zap.String("role", caller.Role),
		zap.String("module", string(module)),
		zap.String("action", string(action)),
	)
	return reject(ReasonPermissionDenied)
}

// PermitSelfAccess is the narrow carve-out that lets a caller act on
// their own record without module permission: a sindico or sub_sindico
// editing their own profile does not need "edit residents". It applies
// only to routes explicitly flagged as self-service; destructive and
// privilege-changing operations never consult it.
func PermitSelfAccess(caller *domain.User, targetUserID int64) bool {
	return caller != nil && caller.ID == targetUserID
}
