package stock

import (
	"context"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// Repository defines stock record persistence.
type Repository interface {
	// Create inserts a new stock record.
	Create(ctx context.Context, r *StockRecord) error

	// GetByID retrieves a record by primary key.
	GetByID(ctx context.Context, id id.ID) (*StockRecord, error)

	// GetByPair retrieves the record for a (depot, product) pair.
	// Returns a not-found error when no record exists yet.
	GetByPair(ctx context.Context, depotID, productID id.ID) (*StockRecord, error)

	// GetReservoir retrieves the product-wide citerne record.
	GetReservoir(ctx context.Context, productID id.ID) (*StockRecord, error)

	// Update persists a mutated record with optimistic locking.
	Update(ctx context.Context, r *StockRecord) error

	// Delete removes a record. The terminal movement is the caller's duty.
	Delete(ctx context.Context, id id.ID) error

	// ListByDepot returns all records owned by a depot.
	ListByDepot(ctx context.Context, depotID id.ID) ([]*StockRecord, error)

	// ListByProduct returns records for a product across depots
	// (reservoir included).
	ListByProduct(ctx context.Context, productID id.ID) ([]*StockRecord, error)

	// CountByDepot reports how many records a depot owns.
	CountByDepot(ctx context.Context, depotID id.ID) (int64, error)

	// SumOccupiedByDepot recomputes Σ(quantity + quantity_in_transfer)
	// over a depot's records, bypassing the cached depot counter.
	SumOccupiedByDepot(ctx context.Context, depotID id.ID) (types.Quantity, error)
}
