package dto

import (
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/movement"
	"petrolog/internal/domain/stock"
)

// --- Request DTOs ---

// AddStockRequest is the request body for adding stock to a depot.
type AddStockRequest struct {
	DepotID   string          `json:"depotId" binding:"required,uuid"`
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity  `json:"quantity" binding:"required"`
	UnitCost  *types.Money    `json:"unitCost"`
	Threshold *types.Quantity `json:"threshold"`
	Unit      string          `json:"unit"`
}

// ToInput converts the request to a ledger input.
func (r *AddStockRequest) ToInput() (stock.AddStockInput, error) {
	depotID, err := id.Parse(r.DepotID)
	if err != nil {
		return stock.AddStockInput{}, err
	}
	productID, err := id.Parse(r.ProductID)
	if err != nil {
		return stock.AddStockInput{}, err
	}
	return stock.AddStockInput{
		DepotID:   depotID,
		ProductID: productID,
		Quantity:  r.Quantity,
		UnitCost:  r.UnitCost,
		Threshold: r.Threshold,
		Unit:      r.Unit,
	}, nil
}

// UpdateStockRequest is the request body for adjusting a stock record.
type UpdateStockRequest struct {
	NewDepotID  *string         `json:"newDepotId"`
	NewQuantity types.Quantity  `json:"newQuantity"`
	UnitCost    *types.Money    `json:"unitCost"`
	Threshold   *types.Quantity `json:"threshold"`
	Unit        string          `json:"unit"`
	Reason      string          `json:"reason"`
}

// ToInput converts the request to a ledger input for the given record.
func (r *UpdateStockRequest) ToInput(stockID id.ID) (stock.UpdateStockInput, error) {
	in := stock.UpdateStockInput{
		StockID:     stockID,
		NewQuantity: r.NewQuantity,
		UnitCost:    r.UnitCost,
		Threshold:   r.Threshold,
		Unit:        r.Unit,
		Reason:      r.Reason,
	}
	if r.NewDepotID != nil {
		depotID, err := id.Parse(*r.NewDepotID)
		if err != nil {
			return stock.UpdateStockInput{}, err
		}
		in.NewDepotID = &depotID
	}
	return in, nil
}

// TransferQuantityRequest carries the quantity for transfer cession
// operations (reserve, release, settle).
type TransferQuantityRequest struct {
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// --- Response DTOs ---

// StockRecordResponse is the response body for a stock record.
type StockRecordResponse struct {
	ID                 string          `json:"id"`
	ProductID          string          `json:"productId"`
	DepotID            *string         `json:"depotId,omitempty"`
	IsReservoir        bool            `json:"isReservoir"`
	Quantity           types.Quantity  `json:"quantity"`
	QuantityInTransfer types.Quantity  `json:"quantityInTransfer"`
	Threshold          *types.Quantity `json:"threshold,omitempty"`
	UnitCost           *types.Money    `json:"unitCost,omitempty"`
	Unit               string          `json:"unit"`
	Version            int             `json:"version"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// FromStockRecord creates response DTO from a stock record.
func FromStockRecord(r *stock.StockRecord) *StockRecordResponse {
	resp := &StockRecordResponse{
		ID:                 r.ID.String(),
		ProductID:          r.ProductID.String(),
		IsReservoir:        r.IsReservoir(),
		Quantity:           r.Quantity,
		QuantityInTransfer: r.QuantityInTransfer,
		Threshold:          r.Threshold,
		UnitCost:           r.UnitCost,
		Unit:               r.Unit,
		Version:            r.Version,
		UpdatedAt:          r.UpdatedAt,
	}
	if r.DepotID != nil {
		s := r.DepotID.String()
		resp.DepotID = &s
	}
	return resp
}

// DepotStockResponse is one active depot with its stock records.
type DepotStockResponse struct {
	Depot   *DepotResponse         `json:"depot"`
	Records []*StockRecordResponse `json:"records"`
}

// FromDepotStock creates response DTO from a grouped ledger view.
func FromDepotStock(ds stock.DepotStock) DepotStockResponse {
	records := make([]*StockRecordResponse, len(ds.Records))
	for i, r := range ds.Records {
		records[i] = FromStockRecord(r)
	}
	return DepotStockResponse{
		Depot:   FromDepot(ds.Depot),
		Records: records,
	}
}

// MovementResponse is the response body for one movement log entry.
type MovementResponse struct {
	ID          string             `json:"id"`
	StockID     string             `json:"stockId"`
	Direction   movement.Direction `json:"direction"`
	Quantity    types.Quantity     `json:"quantity"`
	Unit        string             `json:"unit"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// FromMovement creates response DTO from a movement.
func FromMovement(m movement.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID.String(),
		StockID:     m.StockID.String(),
		Direction:   m.Direction,
		Quantity:    m.Quantity,
		Unit:        m.Unit,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

// MovementListResponse wraps a movement history page.
type MovementListResponse struct {
	Items  []MovementResponse `json:"items"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}
