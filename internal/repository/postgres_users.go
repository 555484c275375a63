package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"vivacondo-api/internal/domain"

	"github.com/lib/pq"
)

// PostgresUsersRepository implements UsersRepository on the users and
// condominium_user tables.
type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var _ UsersRepository = (*PostgresUsersRepository)(nil)

const userColumns = `
	id,
	condominium_id,
	name,
	COALESCE(last_name, '') as last_name,
	email,
	role,
	password,
	account_status,
	phone,
	description,
	date_of_birth,
	address,
	complement,
	city,
	zip_code,
	state,
	country,
	COALESCE(accepts_emails, FALSE) as accepts_emails,
	last_login_at,
	last_viewed_condominium_id
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.CondominiumID,
		&user.Name,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.AccountStatus,
		&user.Phone,
		&user.Description,
		&user.DateOfBirth,
		&user.Address,
		&user.Complement,
		&user.City,
		&user.ZipCode,
		&user.State,
		&user.Country,
		&user.AcceptsEmails,
		&user.LastLoginAt,
		&user.LastViewedCondominiumID,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches a user inside one condominium.
func (r *PostgresUsersRepository) GetUser(ctx context.Context, condominiumID, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE condominium_id = $1 AND id = $2`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, condominiumID, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID is the unscoped lookup used by authentication.
func (r *PostgresUsersRepository) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := r.loadLinkedCondominiums(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail is the login lookup.
func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if err := r.loadLinkedCondominiums(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresUsersRepository) loadLinkedCondominiums(ctx context.Context, user *domain.User) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT condominium_id FROM condominium_user WHERE user_id = $1 ORDER BY condominium_id`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load linked condominiums: %w", err)
	}
	defer rows.Close()

	user.LinkedCondominiumIDs = []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan linked condominium: %w", err)
		}
		user.LinkedCondominiumIDs = append(user.LinkedCondominiumIDs, id)
	}
	return rows.Err()
}

// ListUsers supports pagination, role/status filters and search.
func (r *PostgresUsersRepository) ListUsers(ctx context.Context, condominiumID int64, filters UserFilters, page, size int) ([]*domain.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	offset := (page - 1) * size

	where := []string{"condominium_id = $1"}
	args := []any{condominiumID}
	argN := 2

	if filters.Role != "" {
		where = append(where, fmt.Sprintf("role = $%d", argN))
		args = append(args, filters.Role)
		argN++
	}
	if filters.AccountStatus != nil {
		where = append(where, fmt.Sprintf("account_status = $%d", argN))
		args = append(args, *filters.AccountStatus)
		argN++
	}
	if len(filters.ExcludeRoles) > 0 {
		where = append(where, fmt.Sprintf("role != ALL($%d)", argN))
		args = append(args, pq.Array(filters.ExcludeRoles))
		argN++
	}
	if filters.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argN, argN, argN))
		args = append(args, "%"+filters.Search+"%")
		argN++
	}

	whereClause := "WHERE " + strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ` + whereClause +
		fmt.Sprintf(" ORDER BY name, last_name LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, total, rows.Err()
}

// CountUsersByStatus backs the list endpoint's summary block.
func (r *PostgresUsersRepository) CountUsersByStatus(ctx context.Context, condominiumID int64) (int, int, int, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE account_status),
			COUNT(*) FILTER (WHERE NOT account_status)
		FROM users
		WHERE condominium_id = $1
	`
	var total, active, inactive int
	if err := r.db.QueryRowContext(ctx, query, condominiumID).Scan(&total, &active, &inactive); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count users: %w", err)
	}
	return total, active, inactive, nil
}

// CreateUser inserts the record and returns the generated id.
func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) (int64, error) {
	query := `
		INSERT INTO users (
			condominium_id, name, last_name, email, role, password,
			account_status, phone, description, date_of_birth, address,
			complement, city, zip_code, state, country, accepts_emails
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		user.CondominiumID,
		user.Name,
		user.LastName,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.AccountStatus,
		user.Phone,
		user.Description,
		user.DateOfBirth,
		user.Address,
		user.Complement,
		user.City,
		user.ZipCode,
		user.State,
		user.Country,
		user.AcceptsEmails,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// UpdateUser writes the full mutable field set by id.
func (r *PostgresUsersRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			condominium_id = $2,
			name = $3,
			last_name = $4,
			email = $5,
			role = $6,
			password = $7,
			account_status = $8,
			phone = $9,
			description = $10,
			date_of_birth = $11,
			address = $12,
			complement = $13,
			city = $14,
			zip_code = $15,
			state = $16,
			country = $17,
			accepts_emails = $18
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.CondominiumID,
		user.Name,
		user.LastName,
		user.Email,
		user.Role,
		user.PasswordHash,
		user.AccountStatus,
		user.Phone,
		user.Description,
		user.DateOfBirth,
		user.Address,
		user.Complement,
		user.City,
		user.ZipCode,
		user.State,
		user.Country,
		user.AcceptsEmails,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: id=%d", user.ID)
	}
	return nil
}

// DeleteUser removes the record within one condominium.
func (r *PostgresUsersRepository) DeleteUser(ctx context.Context, condominiumID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE condominium_id = $1 AND id = $2`,
		condominiumID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: id=%d", userID)
	}
	return nil
}

func (r *PostgresUsersRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *PostgresUsersRepository) UpdateLastViewedCondominium(ctx context.Context, userID, condominiumID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_viewed_condominium_id = $2 WHERE id = $1`,
		userID, condominiumID,
	)
	if err != nil {
		return fmt.Errorf("failed to update last viewed condominium: %w", err)
	}
	return nil
}

// LinkCondominium is idempotent via ON CONFLICT DO NOTHING.
func (r *PostgresUsersRepository) LinkCondominium(ctx context.Context, userID, condominiumID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO condominium_user (user_id, condominium_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, condominium_id) DO NOTHING`,
		userID, condominiumID,
	)
	if err != nil {
		return fmt.Errorf("failed to link condominium: %w", err)
	}
	return nil
}
