package acquisition

import (
	"context"
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// Repository defines acquisition persistence. The write path is used by
// the stock ledger when stock is added; the read path feeds the cost
// estimator and the purchase history API.
type Repository interface {
	// Create inserts an acquisition record (within the ledger tx).
	Create(ctx context.Context, a *Acquisition) error

	// GetByID retrieves one record.
	GetByID(ctx context.Context, id id.ID) (*Acquisition, error)

	// List retrieves records matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]*Acquisition, error)

	// UnitPricesByProduct returns the unit prices of all acquisitions for
	// a product with created_at on or before cutoff (all when cutoff nil),
	// oldest first.
	UnitPricesByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) ([]types.Money, error)

	// PurchaseTotalsByProduct returns Σ total and Σ quantity for the same
	// record set (used by the quantity-weighted estimator).
	PurchaseTotalsByProduct(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, types.Quantity, error)
}
