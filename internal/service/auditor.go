package service

import (
	"context"
	"encoding/json"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"go.uber.org/zap"
)

// Auditor writes the per-condominium activity feed. Actions by suporte
// are not recorded: platform maintenance is not condominium activity.
// Audit failures are logged and swallowed so they never abort the
// operation that triggered them.
type Auditor struct {
	repo   repository.AuditRepository
	logger *zap.Logger
}

func NewAuditor(repo repository.AuditRepository, logger *zap.Logger) *Auditor {
	return &Auditor{repo: repo, logger: logger}
}

// Record appends one entry to the feed. changes may be nil.
func (a *Auditor) Record(ctx context.Context, actor *domain.User, condominiumID int64, action, description string, changes any) {
	if actor == nil || actor.Role == domain.RoleSuporte {
		return
	}

	var raw json.RawMessage
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			raw = b
		}
	}

	entry := &domain.AuditLog{
		CondominiumID: condominiumID,
		UserID:        actor.ID,
		UserName:      actor.FullName(),
		Action:        action,
		Description:   description,
		Changes:       raw,
	}
	if err := a.repo.CreateAuditLog(ctx, entry); err != nil {
		a.logger.Warn("failed to write audit log",
			zap.Int64("condominium_id", condominiumID),
			zap.Int64("user_id", actor.ID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
