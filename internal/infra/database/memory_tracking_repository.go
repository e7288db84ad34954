// internal/infra/database/memory_tracking_repository.go
package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"seller_notification_service/internal/domain/tracking"
)

// MemoryTrackingRepository is a mutex-guarded in-memory tracking store.
// It backs the service when no DATABASE_URL is configured and doubles as
// the store for tests. Records are lost on restart.
type MemoryTrackingRepository struct {
	mu      sync.Mutex
	records map[string]*tracking.Record
}

func NewMemoryTrackingRepository() *MemoryTrackingRepository {
	return &MemoryTrackingRepository{records: make(map[string]*tracking.Record)}
}

func (r *MemoryTrackingRepository) Create(_ context.Context, rec *tracking.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[rec.Token]; exists {
		return ErrDuplicateToken
	}
	clone := *rec
	r.records[rec.Token] = &clone
	return nil
}

func (r *MemoryTrackingRepository) GetByToken(_ context.Context, token string) (*tracking.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[token]
	if !ok {
		return nil, ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

// MarkOpenedIfUnopened holds the store lock across the read-check-write,
// so concurrent first hits for the same token see exactly one winner.
func (r *MemoryTrackingRepository) MarkOpenedIfUnopened(_ context.Context, token string, openedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[token]
	if !ok || rec.Opened {
		return false, nil
	}
	rec.Opened = true
	rec.FirstOpenedAt.Time = openedAt
	rec.FirstOpenedAt.Valid = true
	return true, nil
}

func (r *MemoryTrackingRepository) IncrementViews(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[token]
	if !ok || !rec.Opened {
		return ErrRecordNotFound
	}
	rec.ViewCount++
	return nil
}

func (r *MemoryTrackingRepository) ListAll(_ context.Context) ([]*tracking.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]*tracking.Record, 0, len(r.records))
	for _, rec := range r.records {
		clone := *rec
		records = append(records, &clone)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].SentAt.Before(records[j].SentAt) })
	return records, nil
}

func (r *MemoryTrackingRepository) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records), nil
}
