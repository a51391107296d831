// Package alerting defines the low-stock notification boundary.
// Delivery is fire-and-forget: a sink failure is logged and swallowed,
// never surfaced to the stock mutation that raised the alert.
package alerting

import (
	"context"
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// LowStockAlert describes a stock record that crossed its minimum threshold.
type LowStockAlert struct {
	ProductID id.ID
	DepotID   *id.ID // nil for reservoir records
	Quantity  types.Quantity
	Threshold types.Quantity
	At        time.Time
}

// Sink receives low-stock alerts.
type Sink interface {
	RaiseLowStock(ctx context.Context, alert LowStockAlert) error
}
