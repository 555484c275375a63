package repository

import (
	"context"

	"vivacondo-api/internal/domain"
)

// EmployeesRepository manages the employment records attached to
// funcionario users. Identity and login stay on the users table; this
// table carries occupation, dates and employment status.
type EmployeesRepository interface {
	// GetByUserID returns (nil, nil) when the user has no employment
	// record.
	GetByUserID(ctx context.Context, userID int64) (*domain.Employee, error)

	// UpsertForUser creates or updates the single record for one user.
	UpsertForUser(ctx context.Context, employee *domain.Employee) error

	DeleteByUserID(ctx context.Context, userID int64) error
}
