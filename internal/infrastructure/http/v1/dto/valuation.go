package dto

import (
	"time"

	"petrolog/internal/core/types"
	"petrolog/internal/domain/valuation"
)

// CapitalReportResponse is the response body for the capital valuation
// report.
type CapitalReportResponse struct {
	Funds              types.Money `json:"funds"`
	WarehouseStock     types.Money `json:"warehouseStock"`
	InTransitStock     types.Money `json:"inTransitStock"`
	CapitalExpenditure types.Money `json:"capitalExpenditure"`
	GrandTotal         types.Money `json:"grandTotal"`
	ComputedAt         time.Time   `json:"computedAt"`
	StartDate          *time.Time  `json:"startDate,omitempty"`
	EndDate            *time.Time  `json:"endDate,omitempty"`
}

// FromCapitalSnapshot creates response DTO from a computed snapshot.
func FromCapitalSnapshot(s *valuation.CapitalSnapshot) *CapitalReportResponse {
	return &CapitalReportResponse{
		Funds:              s.Funds,
		WarehouseStock:     s.WarehouseStock,
		InTransitStock:     s.InTransitStock,
		CapitalExpenditure: s.CapitalExpenditure,
		GrandTotal:         s.GrandTotal,
		ComputedAt:         s.ComputedAt,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
	}
}
