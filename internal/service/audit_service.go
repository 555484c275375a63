package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vivacondo-api/internal/repository"
)

// AuditService serves the activity feed read side; writes go through
// the Auditor.
type AuditService interface {
	ListAuditLogs(ctx context.Context, condominiumID int64, page, size int) (*ListAuditLogsResponse, error)
}

type auditService struct {
	audit repository.AuditRepository
}

func NewAuditService(audit repository.AuditRepository) AuditService {
	return &auditService{audit: audit}
}

type ListAuditLogsResponse struct {
	Logs  []AuditLogEntry `json:"logs"`
	Total int             `json:"total"`
}

type AuditLogEntry struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	UserName    string          `json:"user_name"`
	Action      string          `json:"action"`
	Description string          `json:"description"`
	Changes     json.RawMessage `json:"changes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (s *auditService) ListAuditLogs(ctx context.Context, condominiumID int64, page, size int) (*ListAuditLogsResponse, error) {
	logs, total, err := s.audit.ListAuditLogs(ctx, condominiumID, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	out := &ListAuditLogsResponse{
		Logs:  make([]AuditLogEntry, 0, len(logs)),
		Total: total,
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, AuditLogEntry{
			ID:          l.ID,
			UserID:      l.UserID,
			UserName:    l.UserName,
			Action:      l.Action,
			Description: l.Description,
			Changes:     l.Changes,
			CreatedAt:   l.CreatedAt,
		})
	}
	return out, nil
}
