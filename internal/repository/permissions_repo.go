package repository

import (
	"context"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
)

// PermissionsRepository is the data-access contract for the stored
// sparse permission overrides of sub_sindico users. It embeds
// authz.PermissionLoader so the access guard reads through the same
// implementation administrators write through.
//
// The stored row is never authoritative on its own: readers merge it
// onto authz.DefaultMatrix() before deciding anything, and writers only
// persist already-merged sets, inside one read-modify-write unit.
type PermissionsRepository interface {
	authz.PermissionLoader

	// GetByUserID returns (nil, nil) when no row exists; absence is a
	// normal state (all defaults apply), not an error.
	GetByUserID(ctx context.Context, userID int64) (*domain.UserPermission, error)

	// EnsureDefault lazily creates the all-deny row on first need
	// (sub_sindico creation); a no-op when the row exists.
	EnsureDefault(ctx context.Context, userID int64) error

	// MergeAndSave applies the override onto the defaults and persists
	// the merged result as one atomic unit (transaction with a row
	// lock on this user's record), so two concurrent edits cannot
	// interleave partial updates. Last writer wins. Returns the
	// effective set that was stored.
	MergeAndSave(ctx context.Context, userID int64, override authz.PermissionSet) (authz.PermissionSet, error)

	DeleteByUserID(ctx context.Context, userID int64) error
}
