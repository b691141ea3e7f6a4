// internal/domain/confirmation/repository.go
package confirmation

import "context"

// Repository owns the process-wide confirmation collection. Record is
// called from the inbound webhook while a dispatch may be running, so
// all three operations must be safe under concurrent access.
type Repository interface {
	// Record upserts keyed by (EmployeeName, WeekStart): a second reply
	// for the same employee and week refreshes ConfirmedAt and Status
	// rather than accumulating a duplicate.
	Record(ctx context.Context, c *Confirmation) error
	// ListAll returns every stored confirmation ordered by ConfirmedAt,
	// most recent first.
	ListAll(ctx context.Context) ([]*Confirmation, error)
	// Clear removes all confirmations. Administrative reset only.
	Clear(ctx context.Context) error
}
