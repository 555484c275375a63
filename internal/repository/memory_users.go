package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"vivacondo-api/internal/domain"
)

// MemoryUsersRepo supports unit tests and DB-less development runs.
type MemoryUsersRepo struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]domain.User
	// userID -> linked condominium ids (condominium_user)
	links map[int64]map[int64]bool
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{
		nextID: 1,
		users:  map[int64]domain.User{},
		links:  map[int64]map[int64]bool{},
	}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func (r *MemoryUsersRepo) snapshot(u domain.User) *domain.User {
	out := u
	out.LinkedCondominiumIDs = []int64{}
	for id := range r.links[u.ID] {
		out.LinkedCondominiumIDs = append(out.LinkedCondominiumIDs, id)
	}
	sort.Slice(out.LinkedCondominiumIDs, func(i, j int) bool {
		return out.LinkedCondominiumIDs[i] < out.LinkedCondominiumIDs[j]
	})
	return &out
}

func (r *MemoryUsersRepo) GetUser(_ context.Context, condominiumID, userID int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok || !u.CondominiumID.Valid || u.CondominiumID.Int64 != condominiumID {
		return nil, nil
	}
	return r.snapshot(u), nil
}

func (r *MemoryUsersRepo) GetUserByID(_ context.Context, userID int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	return r.snapshot(u), nil
}

func (r *MemoryUsersRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return r.snapshot(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUsersRepo) ListUsers(_ context.Context, condominiumID int64, filters UserFilters, page, size int) ([]*domain.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.User{}
	for _, u := range r.users {
		if !u.CondominiumID.Valid || u.CondominiumID.Int64 != condominiumID {
			continue
		}
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters.AccountStatus != nil && u.AccountStatus != *filters.AccountStatus {
			continue
		}
		excluded := false
		for _, role := range filters.ExcludeRoles {
			if u.Role == role {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if filters.Search != "" {
			s := strings.ToLower(filters.Search)
			if !strings.Contains(strings.ToLower(u.Name), s) &&
				!strings.Contains(strings.ToLower(u.LastName), s) &&
				!strings.Contains(strings.ToLower(u.Email), s) {
				continue
			}
		}
		all = append(all, r.snapshot(u))
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

func (r *MemoryUsersRepo) CountUsersByStatus(_ context.Context, condominiumID int64) (int, int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total, active, inactive int
	for _, u := range r.users {
		if !u.CondominiumID.Valid || u.CondominiumID.Int64 != condominiumID {
			continue
		}
		total++
		if u.AccountStatus {
			active++
		} else {
			inactive++
		}
	}
	return total, active, inactive, nil
}

func (r *MemoryUsersRepo) CreateUser(_ context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	stored := *user
	stored.ID = id
	r.users[id] = stored
	return id, nil
}

func (r *MemoryUsersRepo) UpdateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user not found: id=%d", user.ID)
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUsersRepo) DeleteUser(_ context.Context, condominiumID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || !u.CondominiumID.Valid || u.CondominiumID.Int64 != condominiumID {
		return fmt.Errorf("user not found: id=%d", userID)
	}
	delete(r.users, userID)
	delete(r.links, userID)
	return nil
}

func (r *MemoryUsersRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	// timestamps are irrelevant to the callers that use this repo
	return nil
}

func (r *MemoryUsersRepo) UpdateLastViewedCondominium(_ context.Context, userID, condominiumID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user not found: id=%d", userID)
	}
	u.LastViewedCondominiumID.Int64 = condominiumID
	u.LastViewedCondominiumID.Valid = true
	r.users[userID] = u
	return nil
}

func (r *MemoryUsersRepo) LinkCondominium(_ context.Context, userID, condominiumID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.links[userID] == nil {
		r.links[userID] = map[int64]bool{}
	}
	r.links[userID][condominiumID] = true
	return nil
}
