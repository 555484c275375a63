package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"vivacondo-api/internal/domain"
)

// MemoryCondominiumsRepo supports unit tests and DB-less development
// runs.
type MemoryCondominiumsRepo struct {
	mu     sync.RWMutex
	nextID int64
	condos map[int64]domain.Condominium
}

func NewMemoryCondominiumsRepo() *MemoryCondominiumsRepo {
	return &MemoryCondominiumsRepo{
		nextID: 1,
		condos: map[int64]domain.Condominium{},
	}
}

var _ CondominiumsRepository = (*MemoryCondominiumsRepo)(nil)

func (r *MemoryCondominiumsRepo) FindCondominium(_ context.Context, id int64) (*domain.Condominium, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.condos[id]
	if !ok {
		return nil, nil
	}
	out := c
	return &out, nil
}

func (r *MemoryCondominiumsRepo) ListCondominiums(_ context.Context, filters CondominiumFilters, page, size int) ([]*domain.Condominium, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.Condominium{}
	for _, c := range r.condos {
		if filters.Active != nil && c.IsActive != *filters.Active {
			continue
		}
		if filters.Search != "" {
			s := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(c.Name), s) &&
				!strings.Contains(strings.ToLower(c.City.String), s) &&
				!strings.Contains(c.CNPJ.String, filters.Search) {
				continue
			}
		}
		out := c
		all = append(all, &out)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

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

func (r *MemoryCondominiumsRepo) CreateCondominium(_ context.Context, condo *domain.Condominium) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := *condo
	stored.ID = id
	r.condos[id] = stored
	return id, nil
}

func (r *MemoryCondominiumsRepo) UpdateCondominium(_ context.Context, id int64, condo *domain.Condominium) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.condos[id]
	if !ok {
		return fmt.Errorf("condominium not found: id=%d", id)
	}
	stored := *condo
	stored.ID = id
	stored.IsActive = existing.IsActive // status changes go through SetCondominiumStatus
	r.condos[id] = stored
	return nil
}

func (r *MemoryCondominiumsRepo) SetCondominiumStatus(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.condos[id]
	if !ok {
		return fmt.Errorf("condominium not found: id=%d", id)
	}
	c.IsActive = active
	r.condos[id] = c
	return nil
}

func (r *MemoryCondominiumsRepo) DeleteCondominium(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.condos[id]; !ok {
		return fmt.Errorf("condominium not found: id=%d", id)
	}
	delete(r.condos, id)
	return nil
}

// Seed inserts a condominium with a fixed id; test helper.
func (r *MemoryCondominiumsRepo) Seed(condo domain.Condominium) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.condos[condo.ID] = condo
	if condo.ID >= r.nextID {
		r.nextID = condo.ID + 1
	}
}
