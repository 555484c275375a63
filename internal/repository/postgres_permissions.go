package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
)

// PostgresPermissionsRepository implements PermissionsRepository on the
// user_permissions table (one JSONB row per sub_sindico user).
type PostgresPermissionsRepository struct {
	db *sql.DB
}

func NewPostgresPermissionsRepository(db *sql.DB) *PostgresPermissionsRepository {
	return &PostgresPermissionsRepository{db: db}
}

var _ PermissionsRepository = (*PostgresPermissionsRepository)(nil)

// GetByUserID returns (nil, nil) when no row exists.
func (r *PostgresPermissionsRepository) GetByUserID(ctx context.Context, userID int64) (*domain.UserPermission, error) {
	query := `
		SELECT id, user_id, permissions, updated_at
		FROM user_permissions
		WHERE user_id = $1
	`
	var perm domain.UserPermission
	var raw json.RawMessage
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&perm.ID,
		&perm.UserID,
		&raw,
		&perm.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	perm.Permissions = raw
	return &perm, nil
}

// PermissionSetForUser satisfies authz.PermissionLoader. A missing row
// and a corrupted payload both decode to the empty override: the guard
// merges with defaults, so both deny.
func (r *PostgresPermissionsRepository) PermissionSetForUser(ctx context.Context, userID int64) (authz.PermissionSet, error) {
	perm, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return authz.PermissionSet{}, nil
	}
	return authz.ParsePermissionSet(perm.Permissions), nil
}

// EnsureDefault lazily creates the all-deny row; a no-op when present.
func (r *PostgresPermissionsRepository) EnsureDefault(ctx context.Context, userID int64) error {
	raw, err := authz.EncodePermissionSet(authz.DefaultMatrix())
	if err != nil {
		return fmt.Errorf("failed to encode default permissions: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_permissions (user_id, permissions, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, []byte(raw),
	)
	if err != nil {
		return fmt.Errorf("failed to create default permissions: %w", err)
	}
	return nil
}

// MergeAndSave performs the read-modify-write as one unit: the user's
// row is locked for the duration of the transaction, the stored sparse
// set is merged onto the defaults together with the incoming override,
// and the merged result is written back. Concurrent editors serialize
// on the row lock; last writer wins.
func (r *PostgresPermissionsRepository) MergeAndSave(ctx context.Context, userID int64, override authz.PermissionSet) (authz.PermissionSet, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw json.RawMessage
	err = tx.QueryRowContext(ctx,
		`SELECT permissions FROM user_permissions WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&raw)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to lock user permissions: %w", err)
	}

	stored := authz.ParsePermissionSet(raw)
	effective := authz.Merge(authz.DefaultMatrix(), stored)
	effective = authz.Merge(effective, override)

	encoded, err := authz.EncodePermissionSet(effective)
	if err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_permissions (user_id, permissions, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id)
		 DO UPDATE SET permissions = EXCLUDED.permissions, updated_at = NOW()`,
		userID, []byte(encoded),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save user permissions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user permissions: %w", err)
	}
	return effective, nil
}

func (r *PostgresPermissionsRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user permissions: %w", err)
	}
	return nil
}
