package movement

import (
	"context"

	"petrolog/internal/core/id"
)

// Repository defines operations on the movement log.
// The log is append-only: no update or delete operations exist.
type Repository interface {
	// Append inserts movements (used during ledger mutations, within tx).
	Append(ctx context.Context, movements ...Movement) error

	// ListByStock returns movements for one stock record, newest first.
	ListByStock(ctx context.Context, stockID id.ID, limit, offset int) ([]Movement, error)

	// NetQuantityByStock returns Σ entries − Σ exits for a stock record.
	// Used to reconcile the log against the record's quantity history.
	NetQuantityByStock(ctx context.Context, stockID id.ID) (int64, error)
}
