package domain

import (
	"encoding/json"
	"time"
)

// Audit action labels, kept in Portuguese because they are rendered
// verbatim in the activity feed.
const (
	AuditAddResident     = "adicionou o morador"
	AuditUpdatedResident = "editou o morador"
	AuditDeletedResident = "excluiu o morador"

	AuditAddEmployee     = "adicionou o funcionário"
	AuditUpdatedEmployee = "editou o funcionário"
	AuditDeletedEmployee = "excluiu o funcionário"

	AuditAddDelivery       = "registrou a entrega"
	AuditUpdatedDelivery   = "editou registro de entrega"
	AuditDeletedDelivery   = "excluiu registro de entrega"
	AuditConfirmedDelivery = "confirmou recebimento da entrega"

	AuditAddCommonSpace     = "adicionou o espaço comum"
	AuditUpdatedCommonSpace = "editou o espaço comum"
	AuditDeletedCommonSpace = "excluiu a área comum"

	AuditUpdatedOwnAccount = "atualizou sua própria conta"
)

// AuditLog domain model (audit_logs table). One row per administrative
// action within a condominium.
type AuditLog struct {
	ID            int64  `db:"id"`
	CondominiumID int64  `db:"condominium_id"`
	UserID        int64  `db:"user_id"`
	UserName      string `db:"user_name"`

	Action      string          `db:"action"`
	Description string          `db:"description"`
	Changes     json.RawMessage `db:"changes"` // nullable before/after snapshot

	CreatedAt time.Time `db:"created_at"`
}
