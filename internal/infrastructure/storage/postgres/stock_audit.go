package postgres

import (
	"context"

	"petrolog/internal/core/id"
	"petrolog/internal/domain/stock"
)

// StockAuditRecorder persists before/after snapshots of stock mutations
// through the audit service. Implements stock.AuditRecorder.
type StockAuditRecorder struct {
	audit *AuditService
}

// NewStockAuditRecorder creates the stock audit adapter.
func NewStockAuditRecorder(audit *AuditService) *StockAuditRecorder {
	return &StockAuditRecorder{audit: audit}
}

// RecordStockChange implements stock.AuditRecorder.
func (r *StockAuditRecorder) RecordStockChange(ctx context.Context, action string, before, after *stock.StockRecord) error {
	var entityID id.ID
	switch {
	case after != nil:
		entityID = after.ID
	case before != nil:
		entityID = before.ID
	default:
		return nil
	}

	changes := Diff(recordState(before), recordState(after))
	return r.audit.LogChange(ctx, "stock_record", entityID, auditAction(action), changes)
}

func auditAction(action string) AuditAction {
	switch action {
	case "add":
		return AuditActionCreate
	case "remove":
		return AuditActionDelete
	default:
		return AuditActionUpdate
	}
}

func recordState(rec *stock.StockRecord) map[string]any {
	if rec == nil {
		return map[string]any{}
	}
	state := map[string]any{
		"product_id":           rec.ProductID.String(),
		"quantity":             rec.Quantity.String(),
		"quantity_in_transfer": rec.QuantityInTransfer.String(),
		"unit":                 rec.Unit,
	}
	if rec.DepotID != nil {
		state["depot_id"] = rec.DepotID.String()
	}
	if rec.Threshold != nil {
		state["threshold"] = rec.Threshold.String()
	}
	if rec.UnitCost != nil {
		state["unit_cost"] = rec.UnitCost.String()
	}
	return state
}

var _ stock.AuditRecorder = (*StockAuditRecorder)(nil)
