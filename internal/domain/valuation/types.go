package valuation

import (
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// CapitalSnapshot is the composed valuation result. It is computed on
// demand and never persisted; monetary figures are raw decimals, any
// display formatting belongs to the caller.
type CapitalSnapshot struct {
	Funds              types.Money `json:"funds"`
	WarehouseStock     types.Money `json:"warehouse_stock"`
	InTransitStock     types.Money `json:"in_transit_stock"`
	CapitalExpenditure types.Money `json:"capital_expenditure"`
	GrandTotal         types.Money `json:"grand_total"`

	ComputedAt time.Time  `json:"computed_at"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}

// OpenTrip is one undelivered voyage carrying fuel, as reported by the
// trip collaborator.
type OpenTrip struct {
	ProductID     id.ID
	Quantity      types.Quantity
	DepartureDate *time.Time
	Delivered     bool
}
