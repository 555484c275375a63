package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vivacondo-api/internal/domain"
)

// PostgresCondominiumsRepository implements CondominiumsRepository on
// the condominiums table.
type PostgresCondominiumsRepository struct {
	db *sql.DB
}

func NewPostgresCondominiumsRepository(db *sql.DB) *PostgresCondominiumsRepository {
	return &PostgresCondominiumsRepository{db: db}
}

var _ CondominiumsRepository = (*PostgresCondominiumsRepository)(nil)

const condominiumColumns = `
	id,
	name,
	cnpj,
	company_type,
	postal_code,
	street,
	number,
	neighborhood,
	city,
	state,
	phone,
	email,
	COALESCE(is_active, TRUE) as is_active,
	expires_at
`

func scanCondominium(row interface{ Scan(...any) error }) (*domain.Condominium, error) {
	var condo domain.Condominium
	err := row.Scan(
		&condo.ID,
		&condo.Name,
		&condo.CNPJ,
		&condo.CompanyType,
		&condo.PostalCode,
		&condo.Street,
		&condo.Number,
		&condo.Neighborhood,
		&condo.City,
		&condo.State,
		&condo.Phone,
		&condo.Email,
		&condo.IsActive,
		&condo.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &condo, nil
}

// FindCondominium returns (nil, nil) when the id does not exist. Also
// satisfies authz.CondominiumFinder for the tenant resolver.
func (r *PostgresCondominiumsRepository) FindCondominium(ctx context.Context, id int64) (*domain.Condominium, error) {
	query := `SELECT ` + condominiumColumns + ` FROM condominiums WHERE id = $1`

	condo, err := scanCondominium(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get condominium: %w", err)
	}
	return condo, nil
}

// ListCondominiums supports pagination, active filter and search.
func (r *PostgresCondominiumsRepository) ListCondominiums(ctx context.Context, filters CondominiumFilters, page, size int) ([]*domain.Condominium, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{}
	args := []any{}
	argN := 1

	if filters.Active != nil {
		where = append(where, fmt.Sprintf("is_active = $%d", argN))
		args = append(args, *filters.Active)
		argN++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR cnpj ILIKE $%d OR city ILIKE $%d)", argN, argN, argN))
		args = append(args, "%"+filters.Search+"%")
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM condominiums ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count condominiums: %w", err)
	}

	query := `SELECT ` + condominiumColumns + ` FROM condominiums ` + whereClause +
		fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list condominiums: %w", err)
	}
	defer rows.Close()

	condos := []*domain.Condominium{}
	for rows.Next() {
		condo, err := scanCondominium(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan condominium: %w", err)
		}
		condos = append(condos, condo)
	}
	return condos, total, rows.Err()
}

// CreateCondominium inserts the record and returns the generated id.
func (r *PostgresCondominiumsRepository) CreateCondominium(ctx context.Context, condo *domain.Condominium) (int64, error) {
	query := `
		INSERT INTO condominiums (
			name, cnpj, company_type, postal_code, street, number,
			neighborhood, city, state, phone, email, is_active, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		condo.Name,
		condo.CNPJ,
		condo.CompanyType,
		condo.PostalCode,
		condo.Street,
		condo.Number,
		condo.Neighborhood,
		condo.City,
		condo.State,
		condo.Phone,
		condo.Email,
		condo.IsActive,
		condo.ExpiresAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create condominium: %w", err)
	}
	return id, nil
}

// UpdateCondominium writes the mutable field set by id.
func (r *PostgresCondominiumsRepository) UpdateCondominium(ctx context.Context, id int64, condo *domain.Condominium) error {
	query := `
		UPDATE condominiums SET
			name = $2,
			cnpj = $3,
			company_type = $4,
			postal_code = $5,
			street = $6,
			number = $7,
			neighborhood = $8,
			city = $9,
			state = $10,
			phone = $11,
			email = $12,
			expires_at = $13
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		id,
		condo.Name,
		condo.CNPJ,
		condo.CompanyType,
		condo.PostalCode,
		condo.Street,
		condo.Number,
		condo.Neighborhood,
		condo.City,
		condo.State,
		condo.Phone,
		condo.Email,
		condo.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update condominium: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("condominium not found: id=%d", id)
	}
	return nil
}

// SetCondominiumStatus flips is_active.
func (r *PostgresCondominiumsRepository) SetCondominiumStatus(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE condominiums SET is_active = $2 WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("failed to set condominium status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("condominium not found: id=%d", id)
	}
	return nil
}

// DeleteCondominium removes the record.
func (r *PostgresCondominiumsRepository) DeleteCondominium(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM condominiums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete condominium: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("condominium not found: id=%d", id)
	}
	return nil
}
