package repository

import (
	"context"

	"vivacondo-api/internal/domain"
)

// UsersRepository is the data-access contract for user records.
// Strongly typed domain models, no map[string]any. Lookups return
// (nil, nil) when the row does not exist; errors are infrastructure
// failures only. Scoped methods take the resolved condominium id so a
// handler can never reach across tenants by accident.
type UsersRepository interface {
	// GetUser fetches a user inside one condominium (condominium_id
	// equality, linked condominiums are not consulted).
	GetUser(ctx context.Context, condominiumID, userID int64) (*domain.User, error)

	// GetUserByID is the unscoped lookup used by authentication and
	// self-access paths. Loads LinkedCondominiumIDs.
	GetUserByID(ctx context.Context, userID int64) (*domain.User, error)

	// GetUserByEmail is the login lookup. Loads LinkedCondominiumIDs.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	ListUsers(ctx context.Context, condominiumID int64, filters UserFilters, page, size int) ([]*domain.User, int, error)

	// CountUsersByStatus backs the list endpoint's summary block.
	CountUsersByStatus(ctx context.Context, condominiumID int64) (total, active, inactive int, err error)

	CreateUser(ctx context.Context, user *domain.User) (int64, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, condominiumID, userID int64) error

	UpdateLastLogin(ctx context.Context, userID int64) error
	UpdateLastViewedCondominium(ctx context.Context, userID, condominiumID int64) error

	// LinkCondominium attaches a sindico/sub_sindico to a condominium
	// (condominium_user join table); idempotent.
	LinkCondominium(ctx context.Context, userID, condominiumID int64) error
}

// UserFilters narrows ListUsers.
type UserFilters struct {
	Role          string
	AccountStatus *bool
	Search        string // matches name, last_name, email
	ExcludeRoles  []string
}
