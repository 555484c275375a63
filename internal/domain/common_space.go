package domain

import (
	"database/sql"
)

// CommonSpace domain model (common_spaces table). A bookable shared area
// of the condominium (salão de festas, churrasqueira, quadra...).
type CommonSpace struct {
	ID            int64 `db:"id"`
	CondominiumID int64 `db:"condominium_id"`

	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`

	// Rules is a free-form list shown to residents before booking.
	Rules []string `db:"rules"` // stored as JSONB

	ManualApproval bool `db:"manual_approval"`
	Status         bool `db:"status"` // false = space disabled for booking
}
