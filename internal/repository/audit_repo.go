package repository

import (
	"context"

	"vivacondo-api/internal/domain"
)

// AuditRepository persists the per-condominium activity feed.
type AuditRepository interface {
	CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error
	ListAuditLogs(ctx context.Context, condominiumID int64, page, size int) ([]*domain.AuditLog, int, error)
}
