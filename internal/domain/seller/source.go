package seller

import "context"

// RowSource yields the seller notification rows for a batch run.
// Implementations read from a spreadsheet export or equivalent table.
type RowSource interface {
	// Rows returns every data row in source order. An error here is
	// fatal for the run: the batch loop aborts before sending any mail.
	Rows(ctx context.Context) ([]*Notification, error)
}
