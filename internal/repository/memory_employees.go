package repository

import (
	"context"
	"sync"

	"vivacondo-api/internal/domain"
)

// MemoryEmployeesRepo supports unit tests and DB-less development runs.
type MemoryEmployeesRepo struct {
	mu     sync.RWMutex
	nextID int64
	byUser map[int64]domain.Employee
}

func NewMemoryEmployeesRepo() *MemoryEmployeesRepo {
	return &MemoryEmployeesRepo{
		nextID: 1,
		byUser: map[int64]domain.Employee{},
	}
}

var _ EmployeesRepository = (*MemoryEmployeesRepo)(nil)

func (r *MemoryEmployeesRepo) GetByUserID(_ context.Context, userID int64) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

func (r *MemoryEmployeesRepo) UpsertForUser(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *employee
	if existing, ok := r.byUser[employee.UserID]; ok {
		stored.ID = existing.ID
	} else {
		stored.ID = r.nextID
		r.nextID++
	}
	r.byUser[employee.UserID] = stored
	return nil
}

func (r *MemoryEmployeesRepo) DeleteByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUser, userID)
	return nil
}
