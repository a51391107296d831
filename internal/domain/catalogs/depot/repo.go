package depot

import (
	"context"

	"petrolog/internal/core/id"
	"petrolog/internal/domain"
)

// Repository defines the interface for Depot persistence.
type Repository interface {
	domain.CatalogRepository[*Depot]

	// GetForUpdate retrieves depot with row lock. The stock ledger holds
	// this lock across its whole check-validate-write sequence.
	GetForUpdate(ctx context.Context, id id.ID) (*Depot, error)

	// FindActive returns all depots with status=active.
	FindActive(ctx context.Context) ([]*Depot, error)

	// SaveCapacity persists the cached used-capacity counter and status.
	SaveCapacity(ctx context.Context, d *Depot) error
}

// StockCounter reports how many stock records a depot owns.
// Implemented by the stock repository; used to decide between soft delete
// and deactivation.
type StockCounter interface {
	CountByDepot(ctx context.Context, depotID id.ID) (int64, error)
}
