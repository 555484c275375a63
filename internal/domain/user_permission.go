package domain

import (
	"encoding/json"
	"time"
)

// UserPermission domain model (user_permissions table). The stored,
// sparse module/action override for one sub_sindico user. Rows are
// created lazily on first grant and must never be consumed raw: every
// authorization decision merges them onto the default matrix first
// (see internal/authz).
type UserPermission struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`

	// Permissions is the JSONB payload: module -> action -> bool.
	// Missing modules/actions fall back to the default (deny).
	Permissions json.RawMessage `db:"permissions"`

	UpdatedAt time.Time `db:"updated_at"`
}
