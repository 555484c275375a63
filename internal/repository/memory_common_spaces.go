package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"vivacondo-api/internal/domain"
)

// MemoryCommonSpacesRepo supports unit tests and DB-less development
// runs.
type MemoryCommonSpacesRepo struct {
	mu     sync.RWMutex
	nextID int64
	spaces map[int64]domain.CommonSpace
}

func NewMemoryCommonSpacesRepo() *MemoryCommonSpacesRepo {
	return &MemoryCommonSpacesRepo{
		nextID: 1,
		spaces: map[int64]domain.CommonSpace{},
	}
}

var _ CommonSpacesRepository = (*MemoryCommonSpacesRepo)(nil)

func (r *MemoryCommonSpacesRepo) GetCommonSpace(_ context.Context, condominiumID, spaceID int64) (*domain.CommonSpace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.spaces[spaceID]
	if !ok || s.CondominiumID != condominiumID {
		return nil, nil
	}
	out := s
	return &out, nil
}

func (r *MemoryCommonSpacesRepo) ListCommonSpaces(_ context.Context, condominiumID int64, page, size int) ([]*domain.CommonSpace, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.CommonSpace{}
	for _, s := range r.spaces {
		if s.CondominiumID != condominiumID {
			continue
		}
		out := s
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

func (r *MemoryCommonSpacesRepo) CreateCommonSpace(_ context.Context, space *domain.CommonSpace) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := *space
	stored.ID = id
	r.spaces[id] = stored
	return id, nil
}

func (r *MemoryCommonSpacesRepo) UpdateCommonSpace(_ context.Context, space *domain.CommonSpace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.spaces[space.ID]
	if !ok || existing.CondominiumID != space.CondominiumID {
		return fmt.Errorf("common space not found: id=%d", space.ID)
	}
	r.spaces[space.ID] = *space
	return nil
}

func (r *MemoryCommonSpacesRepo) DeleteCommonSpace(_ context.Context, condominiumID, spaceID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.spaces[spaceID]
	if !ok || s.CondominiumID != condominiumID {
		return fmt.Errorf("common space not found: id=%d", spaceID)
	}
	delete(r.spaces, spaceID)
	return nil
}
