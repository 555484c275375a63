package repository

import (
	"context"
	"sync"
	"time"

	"vivacondo-api/internal/authz"
	"vivacondo-api/internal/domain"
)

// MemoryPermissionsRepo supports unit tests and DB-less development
// runs. The mutex stands in for the row lock the Postgres
// implementation takes during MergeAndSave.
type MemoryPermissionsRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.UserPermission // userID -> row
}

func NewMemoryPermissionsRepo() *MemoryPermissionsRepo {
	return &MemoryPermissionsRepo{
		nextID: 1,
		rows:   map[int64]domain.UserPermission{},
	}
}

var _ PermissionsRepository = (*MemoryPermissionsRepo)(nil)

func (r *MemoryPermissionsRepo) GetByUserID(_ context.Context, userID int64) (*domain.UserPermission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	out := row
	return &out, nil
}

func (r *MemoryPermissionsRepo) PermissionSetForUser(_ context.Context, userID int64) (authz.PermissionSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	if !ok {
		return authz.PermissionSet{}, nil
	}
	return authz.ParsePermissionSet(row.Permissions), nil
}

func (r *MemoryPermissionsRepo) EnsureDefault(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[userID]; ok {
		return nil
	}
	raw, err := authz.EncodePermissionSet(authz.DefaultMatrix())
	if err != nil {
		return err
	}
	r.store(userID, raw)
	return nil
}

func (r *MemoryPermissionsRepo) MergeAndSave(_ context.Context, userID int64, override authz.PermissionSet) (authz.PermissionSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := authz.PermissionSet{}
	if row, ok := r.rows[userID]; ok {
		stored = authz.ParsePermissionSet(row.Permissions)
	}
	effective := authz.Merge(authz.DefaultMatrix(), stored)
	effective = authz.Merge(effective, override)

	raw, err := authz.EncodePermissionSet(effective)
	if err != nil {
		return nil, err
	}
	r.store(userID, raw)
	return effective, nil
}

func (r *MemoryPermissionsRepo) DeleteByUserID(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, userID)
	return nil
}

// store assumes r.mu is held.
func (r *MemoryPermissionsRepo) store(userID int64, raw []byte) {
	row, ok := r.rows[userID]
	if !ok {
		row = domain.UserPermission{ID: r.nextID, UserID: userID}
		r.nextID++
	}
	row.Permissions = raw
	row.UpdatedAt = time.Now()
	r.rows[userID] = row
}
