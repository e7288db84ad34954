// internal/domain/tracking/record.go
package tracking

import (
	"database/sql"
	"time"
)

// Record represents the tracking state of a single sent notification email.
// Corresponds to the 'tracking_records' table.
type Record struct {
	Token          string       // Primary key. Opaque, minted once at send time, never reused.
	RecipientEmail string       // Address the message was sent to.
	SellerID       string       // Opaque external identifier, may be empty.
	SentAt         time.Time    // Set once, at creation.
	FirstOpenedAt  sql.NullTime // Set exactly once, on the first confirmed open.
	Opened         bool         // True iff FirstOpenedAt is set.
	ViewCount      int          // Confirmed loads after the first open; starts at 0.
}

// TotalViews returns the number of views attributed to the record for
// reporting purposes: the first open itself counts as one view, every
// subsequent confirmed load adds another. An unopened record has no views.
func (r *Record) TotalViews() int {
	if !r.Opened {
		return 0
	}
	if r.ViewCount < 1 {
		return 1
	}
	return r.ViewCount + 1
}

// SentWithin reports whether the record was sent after the given cutoff.
func (r *Record) SentWithin(cutoff time.Time) bool {
	return r.SentAt.After(cutoff)
}
