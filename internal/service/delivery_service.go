package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"vivacondo-api/internal/domain"
	"vivacondo-api/internal/repository"

	"go.uber.org/zap"
)

// DeliveryService manages gatehouse deliveries: packages registered on
// arrival and confirmed on handover.
type DeliveryService interface {
	ListDeliveries(ctx context.Context, condominiumID int64, req ListDeliveriesRequest) (*ListDeliveriesResponse, error)
	GetDelivery(ctx context.Context, condominiumID, deliveryID int64) (*DeliveryDetail, error)
	CreateDelivery(ctx context.Context, actor *domain.User, condominiumID int64, req CreateDeliveryRequest) (*DeliveryDetail, error)
	UpdateDelivery(ctx context.Context, actor *domain.User, condominiumID, deliveryID int64, req UpdateDeliveryRequest) (*DeliveryDetail, error)
	DeleteDelivery(ctx context.Context, actor *domain.User, condominiumID, deliveryID int64) error

	// ConfirmDelivery records the handover and pushes the confirmation
	// notification. Already-delivered packages are rejected.
	ConfirmDelivery(ctx context.Context, actor *domain.User, condominiumID, deliveryID int64, req ConfirmDeliveryRequest) (*DeliveryDetail, error)
}

type deliveryService struct {
	deliveries repository.DeliveriesRepository
	auditor    *Auditor
	notifier   *Notifier
	logger     *zap.Logger
}

func NewDeliveryService(deliveries repository.DeliveriesRepository, auditor *Auditor, notifier *Notifier, logger *zap.Logger) DeliveryService {
	return &deliveryService{
		deliveries: deliveries,
		auditor:    auditor,
		notifier:   notifier,
		logger:     logger,
	}
}

type ListDeliveriesRequest struct {
	Status string
	UserID int64
	Search string
	Page   int
	Size   int
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryDetail `json:"deliveries"`
	Total      int              `json:"total"`
}

type DeliveryDetail struct {
	ID              int64      `json:"id"`
	UserID          *int64     `json:"user_id"`
	EmployeeID      *int64     `json:"employee_id"`
	ItemDescription string     `json:"item_description"`
	Status          string     `json:"status"`
	ReceivedAt      time.Time  `json:"received_at"`
	DeliveredToName *string    `json:"delivered_to_name"`
	DeliveredAt     *time.Time `json:"delivered_at"`
	Notes           *string    `json:"notes"`
}

type CreateDeliveryRequest struct {
	UserID          int64  `json:"user_id"` // recipient; 0 = unassigned
	ItemDescription string `json:"item_description"`
	Notes           string `json:"notes"`
}

type UpdateDeliveryRequest struct {
	UserID          *int64  `json:"user_id"`
	ItemDescription *string `json:"item_description"`
	Notes           *string `json:"notes"`
}

type ConfirmDeliveryRequest struct {
	DeliveredToName string `json:"delivered_to_name"`
}

func (s *deliveryService) ListDeliveries(ctx context.Context, condominiumID int64, req ListDeliveriesRequest) (*ListDeliveriesResponse, error) {
	filters := repository.DeliveryFilters{
		Status: req.Status,
		UserID: req.UserID,
		Search: strings.TrimSpace(req.Search),
	}
	deliveries, total, err := s.deliveries.ListDeliveries(ctx, condominiumID, filters, req.Page, req.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}

	out := &ListDeliveriesResponse{
		Deliveries: make([]DeliveryDetail, 0, len(deliveries)),
		Total:      total,
	}
	for _, d := range deliveries {
		out.Deliveries = append(out.Deliveries, deliveryDetailFrom(d))
	}
	return out, nil
}

func (s *deliveryService) GetDelivery(ctx context.Context, condominiumID, deliveryID int64) (*DeliveryDetail, error) {
	delivery, err := s.loadScoped(ctx, condominiumID, deliveryID)
	if err != nil {
		return nil, err
	}
	detail := deliveryDetailFrom(delivery)
	return &detail, nil
}

func (s *deliveryService) CreateDelivery(ctx context.Context, actor *domain.User, condominiumID int64, req CreateDeliveryRequest) (*DeliveryDetail, error) {
	delivery := &domain.Delivery{
		CondominiumID:   condominiumID,
		ItemDescription: strings.TrimSpace(req.ItemDescription),
		Status:          domain.DeliveryStatusAwaiting,
		ReceivedAt:      time.Now(),
		Notes:           nullString(req.Notes),
	}
	if req.UserID != 0 {
		delivery.UserID = sql.NullInt64{Int64: req.UserID, Valid: true}
	}
	if actor != nil {
		delivery.EmployeeID = sql.NullInt64{Int64: actor.ID, Valid: true}
	}

	id, err := s.deliveries.CreateDelivery(ctx, delivery)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery: %w", err)
	}
	delivery.ID = id

	s.auditor.Record(ctx, actor, condominiumID, domain.AuditAddDelivery, delivery.ItemDescription, nil)
	s.notifier.DeliveryRegistered(ctx, condominiumID, id, req.UserID, delivery.ItemDescription)

	detail := deliveryDetailFrom(delivery)
	return &detail, nil
}

func (s *deliveryService) UpdateDelivery(ctx context.Context, actor *domain.User, condominiumID, deliveryID int64, req UpdateDeliveryRequest) (*DeliveryDetail, error) {
	delivery, err := s.loadScoped(ctx, condominiumID, deliveryID)
	if err != nil {
		return nil, err
	}

	if req.UserID != nil {
		if *req.UserID == 0 {
			delivery.UserID = sql.NullInt64{}
		} else {
			delivery.UserID = sql.NullInt64{Int64: *req.UserID, Valid: true}
		}
	}
	if req.ItemDescription != nil {
		delivery.ItemDescription = strings.TrimSpace(*req.ItemDescription)
	}
	if req.Notes != nil {
		delivery.Notes = nullString(*req.Notes)
	}

	if err := s.deliveries.UpdateDelivery(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to update delivery: %w", err)
	}

	s.auditor.Record(ctx, actor, condominiumID, domain.AuditUpdatedDelivery, delivery.ItemDescription, nil)

	detail := deliveryDetailFrom(delivery)
	return &detail, nil
}

func (s *deliveryService) DeleteDelivery(ctx context.Context, actor *domain.User, condominiumID, deliveryID int64) error {
	delivery, err := s.loadScoped(ctx, condominiumID, deliveryID)
	if err != nil {
		return err
	}
	if err := s.deliveries.DeleteDelivery(ctx, condominiumID, deliveryID); err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}
	s.auditor.Record(ctx, actor, condominiumID, domain.AuditDeletedDelivery, delivery.ItemDescription, nil)
	return nil
}

func (s *deliveryService) ConfirmDelivery(ctx context.Context, actor *domain.User, condominiumID, deliveryID int64, req ConfirmDeliveryRequest) (*DeliveryDetail, error) {
	delivery, err := s.loadScoped(ctx, condominiumID, deliveryID)
	if err != nil {
		return nil, err
	}
	if delivery.Status == domain.DeliveryStatusDelivered {
		return nil, ErrDeliveryAlreadyDone
	}

	name := strings.TrimSpace(req.DeliveredToName)
	now := time.Now()
	if err := s.deliveries.MarkDelivered(ctx, condominiumID, deliveryID, name, now); err != nil {
		return nil, fmt.Errorf("failed to confirm delivery: %w", err)
	}

	delivery.Status = domain.DeliveryStatusDelivered
	delivery.DeliveredToName = nullString(name)
	delivery.DeliveredAt = sql.NullTime{Time: now, Valid: true}

	s.auditor.Record(ctx, actor, condominiumID, domain.AuditConfirmedDelivery, delivery.ItemDescription, nil)
	var recipient int64
	if delivery.UserID.Valid {
		recipient = delivery.UserID.Int64
	}
	s.notifier.DeliveryConfirmed(ctx, condominiumID, deliveryID, recipient, delivery.ItemDescription)

	detail := deliveryDetailFrom(delivery)
	return &detail, nil
}

func (s *deliveryService) loadScoped(ctx context.Context, condominiumID, deliveryID int64) (*domain.Delivery, error) {
	delivery, err := s.deliveries.GetDelivery(ctx, condominiumID, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery %d: %w", deliveryID, err)
	}
	if delivery == nil {
		return nil, ErrDeliveryNotFound
	}
	return delivery, nil
}

func deliveryDetailFrom(d *domain.Delivery) DeliveryDetail {
	out := DeliveryDetail{
		ID:              d.ID,
		ItemDescription: d.ItemDescription,
		Status:          d.Status,
		ReceivedAt:      d.ReceivedAt,
		DeliveredToName: stringPtr(d.DeliveredToName),
		Notes:           stringPtr(d.Notes),
	}
	if d.UserID.Valid {
		id := d.UserID.Int64
		out.UserID = &id
	}
	if d.EmployeeID.Valid {
		id := d.EmployeeID.Int64
		out.EmployeeID = &id
	}
	if d.DeliveredAt.Valid {
		t := d.DeliveredAt.Time
		out.DeliveredAt = &t
	}
	return out
}
