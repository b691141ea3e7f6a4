package employee

import "context"

// Repository defines the operations for persisting and retrieving
// Employee entities.
type Repository interface {
	// Upsert inserts the employee or, when the recipient ID is already
	// registered, refreshes the stored name and activity flag.
	Upsert(ctx context.Context, e *Employee) error
	GetByRecipientID(ctx context.Context, recipientID string) (*Employee, error)
	ListActive(ctx context.Context) ([]*Employee, error)
}

// Directory is the lookup capability the recipient resolver needs: is
// this recipient ID known and deliverable right now. Implementations
// must not cache across batches, the directory may change between them.
type Directory interface {
	IsKnownRecipient(ctx context.Context, recipientID string) (bool, error)
}
