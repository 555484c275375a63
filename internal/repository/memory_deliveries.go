package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vivacondo-api/internal/domain"
)

// MemoryDeliveriesRepo supports unit tests and DB-less development runs.
type MemoryDeliveriesRepo struct {
	mu         sync.RWMutex
	nextID     int64
	deliveries map[int64]domain.Delivery
}

func NewMemoryDeliveriesRepo() *MemoryDeliveriesRepo {
	return &MemoryDeliveriesRepo{
		nextID:     1,
		deliveries: map[int64]domain.Delivery{},
	}
}

var _ DeliveriesRepository = (*MemoryDeliveriesRepo)(nil)

func (r *MemoryDeliveriesRepo) GetDelivery(_ context.Context, condominiumID, deliveryID int64) (*domain.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deliveries[deliveryID]
	if !ok || d.CondominiumID != condominiumID {
		return nil, nil
	}
	out := d
	return &out, nil
}

func (r *MemoryDeliveriesRepo) ListDeliveries(_ context.Context, condominiumID int64, filters DeliveryFilters, page, size int) ([]*domain.Delivery, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Delivery{}
	for _, d := range r.deliveries {
		if d.CondominiumID != condominiumID {
			continue
		}
		if filters.Status != "" && d.Status != filters.Status {
			continue
		}
		if filters.UserID != 0 && (!d.UserID.Valid || d.UserID.Int64 != filters.UserID) {
			continue
		}
		if filters.Search != "" {
			s := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(d.ItemDescription), s) &&
				!strings.Contains(strings.ToLower(d.DeliveredToName.String), s) {
				continue
			}
		}
		out := d
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ReceivedAt.After(all[j].ReceivedAt) })

	total := len(all)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *MemoryDeliveriesRepo) CreateDelivery(_ context.Context, delivery *domain.Delivery) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := *delivery
	stored.ID = id
	r.deliveries[id] = stored
	return id, nil
}

func (r *MemoryDeliveriesRepo) UpdateDelivery(_ context.Context, delivery *domain.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.deliveries[delivery.ID]
	if !ok || existing.CondominiumID != delivery.CondominiumID {
		return fmt.Errorf("delivery not found: id=%d", delivery.ID)
	}
	r.deliveries[delivery.ID] = *delivery
	return nil
}

func (r *MemoryDeliveriesRepo) DeleteDelivery(_ context.Context, condominiumID, deliveryID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deliveries[deliveryID]
	if !ok || d.CondominiumID != condominiumID {
		return fmt.Errorf("delivery not found: id=%d", deliveryID)
	}
	delete(r.deliveries, deliveryID)
	return nil
}

func (r *MemoryDeliveriesRepo) MarkDelivered(_ context.Context, condominiumID, deliveryID int64, deliveredToName string, deliveredAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deliveries[deliveryID]
	if !ok || d.CondominiumID != condominiumID {
		return fmt.Errorf("delivery not found: id=%d", deliveryID)
	}
	d.Status = domain.DeliveryStatusDelivered
	d.DeliveredToName.String = deliveredToName
	d.DeliveredToName.Valid = deliveredToName != ""
	d.DeliveredAt.Time = deliveredAt
	d.DeliveredAt.Valid = true
	r.deliveries[deliveryID] = d
	return nil
}
