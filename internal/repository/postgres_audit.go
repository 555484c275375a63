package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vivacondo-api/internal/domain"
)

// PostgresAuditRepository implements AuditRepository on the audit_logs
// table. Writes are append-only.
type PostgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

var _ AuditRepository = (*PostgresAuditRepository)(nil)

func (r *PostgresAuditRepository) CreateAuditLog(ctx context.Context, entry *domain.AuditLog) error {
	var changes any
	if len(entry.Changes) > 0 {
		changes = []byte(entry.Changes)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (
			condominium_id, user_id, user_name, action, description, changes, created_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		entry.CondominiumID,
		entry.UserID,
		entry.UserName,
		entry.Action,
		entry.Description,
		changes,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) ListAuditLogs(ctx context.Context, condominiumID int64, page, size int) ([]*domain.AuditLog, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_logs WHERE condominium_id = $1`,
		condominiumID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, condominium_id, user_id, user_name, action, description,
		        changes, created_at
		 FROM audit_logs
		 WHERE condominium_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		condominiumID, size, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.AuditLog{}
	for rows.Next() {
		var entry domain.AuditLog
		var changes sql.NullString
		if err := rows.Scan(
			&entry.ID,
			&entry.CondominiumID,
			&entry.UserID,
			&entry.UserName,
			&entry.Action,
			&entry.Description,
			&changes,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		if changes.Valid {
			entry.Changes = []byte(changes.String)
		}
		logs = append(logs, &entry)
	}
	return logs, total, rows.Err()
}
