package repository

import (
	"context"

	"vivacondo-api/internal/domain"
)

// CommonSpacesRepository is the data-access contract for shared areas.
type CommonSpacesRepository interface {
	// GetCommonSpace returns (nil, nil) when absent in this condominium.
	GetCommonSpace(ctx context.Context, condominiumID, spaceID int64) (*domain.CommonSpace, error)

	ListCommonSpaces(ctx context.Context, condominiumID int64, page, size int) ([]*domain.CommonSpace, int, error)

	CreateCommonSpace(ctx context.Context, space *domain.CommonSpace) (int64, error)
	UpdateCommonSpace(ctx context.Context, space *domain.CommonSpace) error
	DeleteCommonSpace(ctx context.Context, condominiumID, spaceID int64) error
}
