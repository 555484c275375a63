package domain

import (
	"database/sql"
	"time"
)

// Delivery statuses.
const (
	DeliveryStatusAwaiting  = "aguardando"
	DeliveryStatusDelivered = "entregue"
)

// Delivery domain model (deliveries table). A package registered at the
// gatehouse for a resident of the condominium.
type Delivery struct {
	ID            int64 `db:"id"`
	CondominiumID int64 `db:"condominium_id"`

	UserID     sql.NullInt64 `db:"user_id"`     // recipient resident
	EmployeeID sql.NullInt64 `db:"employee_id"` // gatekeeper who registered/delivered

	ItemDescription string    `db:"item_description"`
	Status          string    `db:"status"`
	ReceivedAt      time.Time `db:"received_at"`

	DeliveredToName sql.NullString `db:"delivered_to_name"`
	DeliveredAt     sql.NullTime   `db:"delivered_at"`
	Notes           sql.NullString `db:"notes"`
}
