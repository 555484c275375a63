package repository

import (
	"context"
	"sync"
	"time"

	"vivacondo-api/internal/domain"
)

// MemoryAuditRepo supports unit tests and DB-less development runs.
type MemoryAuditRepo struct {
	mu     sync.RWMutex
	nextID int64
	logs   []domain.AuditLog
}

func NewMemoryAuditRepo() *MemoryAuditRepo {
	return &MemoryAuditRepo{nextID: 1}
}

var _ AuditRepository = (*MemoryAuditRepo)(nil)

func (r *MemoryAuditRepo) CreateAuditLog(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *entry
	stored.ID = r.nextID
	r.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, stored)
	return nil
}

func (r *MemoryAuditRepo) ListAuditLogs(_ context.Context, condominiumID int64, page, size int) ([]*domain.AuditLog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := []*domain.AuditLog{}
	// newest first
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].CondominiumID != condominiumID {
			continue
		}
		out := r.logs[i]
		all = append(all, &out)
	}

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
