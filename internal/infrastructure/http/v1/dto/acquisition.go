package dto

import (
	"time"

	"petrolog/internal/core/types"
	"petrolog/internal/domain/acquisition"
)

// AcquisitionResponse is the response body for a purchase record.
type AcquisitionResponse struct {
	ID        string         `json:"id"`
	Number    string         `json:"number"`
	DepotID   string         `json:"depotId"`
	ProductID string         `json:"productId"`
	Quantity  types.Quantity `json:"quantity"`
	UnitPrice types.Money    `json:"unitPrice"`
	Total     types.Money    `json:"total"`
	Notes     *string        `json:"notes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// FromAcquisition creates response DTO from domain entity.
func FromAcquisition(a *acquisition.Acquisition) *AcquisitionResponse {
	return &AcquisitionResponse{
		ID:        a.ID.String(),
		Number:    a.Number,
		DepotID:   a.DepotID.String(),
		ProductID: a.ProductID.String(),
		Quantity:  a.Quantity,
		UnitPrice: a.UnitPrice,
		Total:     a.Total,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
	}
}

// AcquisitionListResponse wraps a purchase history page.
type AcquisitionListResponse struct {
	Items  []*AcquisitionResponse `json:"items"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// AverageCostResponse is the estimated unit acquisition cost for a product.
type AverageCostResponse struct {
	ProductID       string      `json:"productId"`
	AverageUnitCost types.Money `json:"averageUnitCost"`
	At              *time.Time  `json:"at,omitempty"`
}
