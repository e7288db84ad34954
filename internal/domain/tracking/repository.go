// internal/domain/tracking/repository.go
package tracking

import (
	"context"
	"time"
)

// Repository defines persistence operations for tracking Records.
// The store exclusively owns record storage; the open recorder and the
// statistics aggregator access records only through this interface.
type Repository interface {
	// Create appends a new record. The token must be unique for the
	// lifetime of the store.
	Create(ctx context.Context, rec *Record) error

	// GetByToken returns the record for the given token, or
	// ErrRecordNotFound from the implementing package.
	GetByToken(ctx context.Context, token string) (*Record, error)

	// MarkOpenedIfUnopened atomically performs the Unopened->Opened
	// transition. It returns true iff this call won the transition;
	// false if the record was already opened or does not exist.
	// Concurrent calls for the same token must yield exactly one true.
	MarkOpenedIfUnopened(ctx context.Context, token string, openedAt time.Time) (bool, error)

	// IncrementViews adds one to the view counter of an already-opened
	// record.
	IncrementViews(ctx context.Context, token string) error

	// ListAll returns every record, for aggregation.
	ListAll(ctx context.Context) ([]*Record, error)

	// CountAll returns the total number of records.
	CountAll(ctx context.Context) (int, error)
}
