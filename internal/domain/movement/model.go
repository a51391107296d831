// Package movement provides the append-only stock movement log.
// Movements are immutable: they are never updated or deleted, and their
// net sum must explain every quantity change of the stock record they
// reference.
package movement

import (
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// Direction defines whether a movement adds or removes stock.
type Direction string

const (
	// DirectionEntry increases on-hand quantity
	DirectionEntry Direction = "entry"
	// DirectionExit decreases on-hand quantity
	DirectionExit Direction = "exit"
)

// Movement is one immutable audit entry for a stock quantity change.
type Movement struct {
	// ID is unique identifier for this movement (UUIDv7, time-ordered)
	ID id.ID `db:"id" json:"id"`

	// StockID references the stock record this movement explains
	StockID id.ID `db:"stock_id" json:"stockId"`

	// Direction: entry or exit
	Direction Direction `db:"direction" json:"direction"`

	// Quantity moved; always positive, direction carries the sign
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Unit is the measurement unit label
	Unit string `db:"unit" json:"unit"`

	// Description is a free-text explanation of the change
	Description string `db:"description" json:"description"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a movement with generated ID and timestamp.
func New(stockID id.ID, direction Direction, quantity types.Quantity, unit, description string) Movement {
	return Movement{
		ID:          id.New(),
		StockID:     stockID,
		Direction:   direction,
		Quantity:    quantity,
		Unit:        unit,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}

// SignedQuantity returns quantity with sign based on direction.
// Entry = positive, exit = negative.
func (m *Movement) SignedQuantity() types.Quantity {
	if m.Direction == DirectionExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}
