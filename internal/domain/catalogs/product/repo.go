package product

import (
	"context"

	"petrolog/internal/core/id"
	"petrolog/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// ExistsByName checks name uniqueness (names are unique across products).
	ExistsByName(ctx context.Context, name string, excludeID id.ID) (bool, error)
}

// ReservoirProvisioner creates the product's depot-less reservoir stock
// record. Implemented by the stock ledger; invoked on product creation.
type ReservoirProvisioner interface {
	ProvisionReservoir(ctx context.Context, productID id.ID, unit string) error
}
