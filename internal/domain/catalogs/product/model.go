// Package product provides the Product catalog: the fuel grades and
// petroleum goods the business stores, hauls and sells.
package product

import (
	"context"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/entity"
)

// Category defines the fuel type.
type Category string

const (
	CategoryGasoline  Category = "gasoline"
	CategoryDiesel    Category = "diesel"
	CategoryKerosene  Category = "kerosene"
	CategoryFuelOil   Category = "fuel_oil"
	CategoryLPG       Category = "lpg"
	CategoryLubricant Category = "lubricant"
)

// Product represents one fuel grade or petroleum good.
//
// Every product owns exactly one reservoir (citerne) stock record not tied
// to any depot; it is provisioned when the product is created and carries
// fleet-internal transfer quantities.
type Product struct {
	entity.Catalog

	// Category is the fuel type
	Category Category `db:"category" json:"category"`

	// Unit is the default measurement unit label (litres unless stated)
	Unit string `db:"unit" json:"unit"`

	// Description is a free-text description
	Description *string `db:"description" json:"description,omitempty"`
}

// NewProduct creates a new Product with required fields.
func NewProduct(code, name string, category Category) *Product {
	return &Product{
		Catalog:  entity.NewCatalog(code, name),
		Category: category,
		Unit:     "L",
	}
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidCategory(p.Category) {
		return apperror.NewValidation("invalid product category").
			WithDetail("field", "category").
			WithDetail("value", string(p.Category))
	}

	return nil
}

func isValidCategory(c Category) bool {
	switch c {
	case CategoryGasoline, CategoryDiesel, CategoryKerosene,
		CategoryFuelOil, CategoryLPG, CategoryLubricant:
		return true
	}
	return false
}
