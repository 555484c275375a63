package repository

import (
	"context"

	"vivacondo-api/internal/domain"
)

// CondominiumsRepository is the data-access contract for condominium
// (tenant) records. FindCondominium satisfies authz.CondominiumFinder,
// so the tenant resolver reads through the same implementation the
// management endpoints use.
type CondominiumsRepository interface {
	// FindCondominium returns (nil, nil) when the id does not exist.
	FindCondominium(ctx context.Context, id int64) (*domain.Condominium, error)

	ListCondominiums(ctx context.Context, filters CondominiumFilters, page, size int) ([]*domain.Condominium, int, error)

	CreateCondominium(ctx context.Context, condo *domain.Condominium) (int64, error)
	UpdateCondominium(ctx context.Context, id int64, condo *domain.Condominium) error

	// SetCondominiumStatus flips is_active; used by the suporte-only
	// reactivation flow.
	SetCondominiumStatus(ctx context.Context, id int64, active bool) error

	DeleteCondominium(ctx context.Context, id int64) error
}

// CondominiumFilters narrows ListCondominiums.
type CondominiumFilters struct {
	Active *bool
	Search string // matches name, cnpj, city
}
