package repository

import (
	"context"
	"time"

	"vivacondo-api/internal/domain"
)

// DeliveriesRepository is the data-access contract for gatehouse
// deliveries. Every method is condominium-scoped.
type DeliveriesRepository interface {
	// GetDelivery returns (nil, nil) when absent in this condominium.
	GetDelivery(ctx context.Context, condominiumID, deliveryID int64) (*domain.Delivery, error)

	ListDeliveries(ctx context.Context, condominiumID int64, filters DeliveryFilters, page, size int) ([]*domain.Delivery, int, error)

	CreateDelivery(ctx context.Context, delivery *domain.Delivery) (int64, error)
	UpdateDelivery(ctx context.Context, delivery *domain.Delivery) error
	DeleteDelivery(ctx context.Context, condominiumID, deliveryID int64) error

	// MarkDelivered records the handover (status, recipient name,
	// timestamp) for the confirm-receipt flow.
	MarkDelivered(ctx context.Context, condominiumID, deliveryID int64, deliveredToName string, deliveredAt time.Time) error
}

// DeliveryFilters narrows ListDeliveries.
type DeliveryFilters struct {
	Status string
	UserID int64  // recipient filter; 0 = all
	Search string // matches item_description, delivered_to_name
}
