// Package stock provides the stock ledger: per-(depot, product) stock
// records, depot capacity enforcement, and the side effects every
// mutation carries (movement log entry, mirrored acquisition record,
// low-stock signal).
package stock

import (
	"context"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// StockRecord is the quantity of one product held at one depot, or in the
// product-wide reservoir (citerne) when DepotID is nil.
type StockRecord struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// ProductID references the product
	ProductID id.ID `db:"product_id" json:"productId"`

	// DepotID references the owning depot; nil means reservoir record
	DepotID *id.ID `db:"depot_id" json:"depotId,omitempty"`

	// Quantity is the on-hand quantity (never negative)
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// QuantityInTransfer is stock committed to a no-payment transfer
	// (cession). It still occupies depot capacity but is excluded from
	// sellable inventory.
	QuantityInTransfer types.Quantity `db:"quantity_in_transfer" json:"quantityInTransfer"`

	// Threshold is the minimum-stock alert level (nil = no alerting)
	Threshold *types.Quantity `db:"threshold" json:"threshold,omitempty"`

	// UnitCost is the recorded acquisition cost per unit (nil = unknown)
	UnitCost *types.Money `db:"unit_cost" json:"unitCost,omitempty"`

	// Unit is the measurement unit label
	Unit string `db:"unit" json:"unit"`

	// Version for optimistic locking
	Version int `db:"version" json:"version"`

	// UpdatedAt is the last mutation timestamp
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewRecord creates a stock record for a (depot, product) pair.
func NewRecord(depotID *id.ID, productID id.ID, quantity types.Quantity, unit string) *StockRecord {
	return &StockRecord{
		ID:        id.New(),
		ProductID: productID,
		DepotID:   depotID,
		Quantity:  quantity,
		Unit:      unit,
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	}
}

// IsReservoir reports whether this is the product-wide citerne record.
func (r *StockRecord) IsReservoir() bool {
	return r.DepotID == nil
}

// Occupied returns the volume this record contributes to depot capacity:
// on-hand plus transfer-cession quantity.
func (r *StockRecord) Occupied() types.Quantity {
	return r.Quantity + r.QuantityInTransfer
}

// BelowThreshold reports whether on-hand quantity is at or under the
// configured minimum. Records without a threshold never alert.
func (r *StockRecord) BelowThreshold() bool {
	return r.Threshold != nil && r.Quantity <= *r.Threshold
}

// Touch bumps version and update timestamp.
func (r *StockRecord) Touch() {
	r.Version++
	r.UpdatedAt = time.Now().UTC()
}

// Validate implements entity.Validatable.
func (r *StockRecord) Validate(ctx context.Context) error {
	if id.IsNil(r.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if r.Quantity.IsNegative() {
		return apperror.NewInvalidQuantity("quantity cannot be negative").
			WithDetail("value", r.Quantity.String())
	}
	if r.QuantityInTransfer.IsNegative() {
		return apperror.NewInvalidQuantity("transfer quantity cannot be negative").
			WithDetail("value", r.QuantityInTransfer.String())
	}
	return nil
}
