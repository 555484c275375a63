package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vivacondo-api/internal/domain"
)

// PostgresCommonSpacesRepository implements CommonSpacesRepository on
// the common_spaces table. Rules are stored as JSONB.
type PostgresCommonSpacesRepository struct {
	db *sql.DB
}

func NewPostgresCommonSpacesRepository(db *sql.DB) *PostgresCommonSpacesRepository {
	return &PostgresCommonSpacesRepository{db: db}
}

var _ CommonSpacesRepository = (*PostgresCommonSpacesRepository)(nil)

func scanCommonSpace(row interface{ Scan(...any) error }) (*domain.CommonSpace, error) {
	var space domain.CommonSpace
	var rulesRaw []byte
	err := row.Scan(
		&space.ID,
		&space.CondominiumID,
		&space.Name,
		&space.Description,
		&rulesRaw,
		&space.ManualApproval,
		&space.Status,
	)
	if err != nil {
		return nil, err
	}
	if len(rulesRaw) > 0 {
		// tolerate malformed stored rules: treat as no rules
		_ = json.Unmarshal(rulesRaw, &space.Rules)
	}
	return &space, nil
}

const commonSpaceColumns = `
	id,
	condominium_id,
	name,
	description,
	COALESCE(rules, '[]'::jsonb),
	COALESCE(manual_approval, FALSE) as manual_approval,
	COALESCE(status, TRUE) as status
`

// GetCommonSpace returns (nil, nil) when absent in this condominium.
func (r *PostgresCommonSpacesRepository) GetCommonSpace(ctx context.Context, condominiumID, spaceID int64) (*domain.CommonSpace, error) {
	query := `SELECT ` + commonSpaceColumns + ` FROM common_spaces WHERE condominium_id = $1 AND id = $2`

	space, err := scanCommonSpace(r.db.QueryRowContext(ctx, query, condominiumID, spaceID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get common space: %w", err)
	}
	return space, nil
}

// ListCommonSpaces lists all spaces of one condominium with pagination.
func (r *PostgresCommonSpacesRepository) ListCommonSpaces(ctx context.Context, condominiumID int64, page, size int) ([]*domain.CommonSpace, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM common_spaces WHERE condominium_id = $1`,
		condominiumID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count common spaces: %w", err)
	}

	query := `SELECT ` + commonSpaceColumns + ` FROM common_spaces
		WHERE condominium_id = $1 ORDER BY name LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, condominiumID, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list common spaces: %w", err)
	}
	defer rows.Close()

	spaces := []*domain.CommonSpace{}
	for rows.Next() {
		space, err := scanCommonSpace(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan common space: %w", err)
		}
		spaces = append(spaces, space)
	}
	return spaces, total, rows.Err()
}

// CreateCommonSpace inserts the record and returns the generated id.
func (r *PostgresCommonSpacesRepository) CreateCommonSpace(ctx context.Context, space *domain.CommonSpace) (int64, error) {
	rules, err := json.Marshal(space.Rules)
	if err != nil {
		return 0, fmt.Errorf("failed to encode rules: %w", err)
	}

	query := `
		INSERT INTO common_spaces (
			condominium_id, name, description, rules, manual_approval, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err = r.db.QueryRowContext(ctx, query,
		space.CondominiumID,
		space.Name,
		space.Description,
		rules,
		space.ManualApproval,
		space.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create common space: %w", err)
	}
	return id, nil
}

// UpdateCommonSpace writes the mutable field set, condominium-scoped.
func (r *PostgresCommonSpacesRepository) UpdateCommonSpace(ctx context.Context, space *domain.CommonSpace) error {
	rules, err := json.Marshal(space.Rules)
	if err != nil {
		return fmt.Errorf("failed to encode rules: %w", err)
	}

	query := `
		UPDATE common_spaces SET
			name = $3,
			description = $4,
			rules = $5,
			manual_approval = $6,
			status = $7
		WHERE condominium_id = $1 AND id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		space.CondominiumID,
		space.ID,
		space.Name,
		space.Description,
		rules,
		space.ManualApproval,
		space.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update common space: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("common space not found: id=%d", space.ID)
	}
	return nil
}

// DeleteCommonSpace removes the record within one condominium.
func (r *PostgresCommonSpacesRepository) DeleteCommonSpace(ctx context.Context, condominiumID, spaceID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM common_spaces WHERE condominium_id = $1 AND id = $2`,
		condominiumID, spaceID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete common space: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("common space not found: id=%d", spaceID)
	}
	return nil
}
