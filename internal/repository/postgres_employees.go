package repository

import (
	"context"
	"database/sql"
	"fmt"

	"vivacondo-api/internal/domain"
)

// PostgresEmployeesRepository implements EmployeesRepository on the
// employees table (one record per funcionario user).
type PostgresEmployeesRepository struct {
	db *sql.DB
}

func NewPostgresEmployeesRepository(db *sql.DB) *PostgresEmployeesRepository {
	return &PostgresEmployeesRepository{db: db}
}

var _ EmployeesRepository = (*PostgresEmployeesRepository)(nil)

// GetByUserID returns (nil, nil) when the user has no employment record.
func (r *PostgresEmployeesRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error) {
	query := `
		SELECT id, user_id, occupation, admission_date, resignation_date,
		       employee_description, COALESCE(status, '') as status
		FROM employees
		WHERE user_id = $1
	`
	var emp domain.Employee
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&emp.ID,
		&emp.UserID,
		&emp.Occupation,
		&emp.AdmissionDate,
		&emp.ResignationDate,
		&emp.Description,
		&emp.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &emp, nil
}

// UpsertForUser creates or updates the single record for one user.
func (r *PostgresEmployeesRepository) UpsertForUser(ctx context.Context, employee *domain.Employee) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO employees (
			user_id, occupation, admission_date, resignation_date,
			employee_description, status
		 ) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id)
		 DO UPDATE SET occupation = EXCLUDED.occupation,
		               admission_date = EXCLUDED.admission_date,
		               resignation_date = EXCLUDED.resignation_date,
		               employee_description = EXCLUDED.employee_description,
		               status = EXCLUDED.status`,
		employee.UserID,
		employee.Occupation,
		employee.AdmissionDate,
		employee.ResignationDate,
		employee.Description,
		employee.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert employee: %w", err)
	}
	return nil
}

func (r *PostgresEmployeesRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}
