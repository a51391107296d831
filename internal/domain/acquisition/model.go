// Package acquisition provides purchase (achat) records and the unit-cost
// estimator built on top of them. Acquisitions are both a financial record
// and the costing input for valuing goods without an explicit unit price.
package acquisition

import (
	"context"
	"time"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/entity"
	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// Acquisition is one recorded purchase of product into a depot.
type Acquisition struct {
	entity.BaseDocument

	// Number is the document number (numerator-generated, "ACH" prefix)
	Number string `db:"number" json:"number"`

	// DepotID is the receiving depot
	DepotID id.ID `db:"depot_id" json:"depotId"`

	// ProductID is the purchased product
	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity purchased
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitPrice is the purchase price per unit
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`

	// Total is quantity × unit price, computed at record time
	Total types.Money `db:"total" json:"total"`

	// Notes is free text
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// New creates an acquisition record with the total derived from quantity
// and unit price.
func New(depotID, productID id.ID, quantity types.Quantity, unitPrice types.Money) *Acquisition {
	return &Acquisition{
		BaseDocument: entity.NewBaseDocument(),
		DepotID:      depotID,
		ProductID:    productID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Total:        unitPrice.Mul(quantity.Decimal()),
	}
}

// Validate implements entity.Validatable.
func (a *Acquisition) Validate(ctx context.Context) error {
	if id.IsNil(a.ProductID) {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if !a.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity").
			WithDetail("value", a.Quantity.String())
	}
	if a.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative").
			WithDetail("field", "unitPrice")
	}
	return nil
}

// ListFilter narrows acquisition queries.
type ListFilter struct {
	ProductID *id.ID
	DepotID   *id.ID
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}
