package acquisition

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
)

// CostEstimator derives a representative unit acquisition cost for a
// product from its purchase history. Products with no history are valued
// at zero rather than failing: a missing cost must never hard-fail a whole
// capital snapshot.
type CostEstimator interface {
	// AverageUnitCost returns the estimated unit cost considering only
	// acquisitions recorded on or before cutoff (all when cutoff is nil),
	// rounded to 2 decimal places.
	AverageUnitCost(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, error)
}

// UnweightedAverage is the default estimator: the arithmetic mean of unit
// prices across matching acquisitions, regardless of purchased quantity.
//
// A quantity-weighted average (total spend ÷ total quantity) is the more
// defensible costing method; QuantityWeighted implements it. The
// unweighted mean is kept as the default for continuity with the
// established purchase-costing reports.
type UnweightedAverage struct {
	repo Repository
}

// NewUnweightedAverage creates the default cost estimator.
func NewUnweightedAverage(repo Repository) *UnweightedAverage {
	return &UnweightedAverage{repo: repo}
}

// AverageUnitCost implements CostEstimator.
func (e *UnweightedAverage) AverageUnitCost(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, error) {
	prices, err := e.repo.UnitPricesByProduct(ctx, productID, cutoff)
	if err != nil {
		return types.Zero(), fmt.Errorf("load unit prices: %w", err)
	}

	if len(prices) == 0 {
		return types.Zero(), nil
	}

	sum := types.Zero()
	for _, p := range prices {
		sum = sum.Add(p)
	}

	// Round half-up to 2 decimals.
	return sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(2), nil
}

// QuantityWeighted estimates unit cost as total spend divided by total
// purchased quantity. Substitutable for UnweightedAverage without touching
// callers.
type QuantityWeighted struct {
	repo Repository
}

// NewQuantityWeighted creates the weighted cost estimator.
func NewQuantityWeighted(repo Repository) *QuantityWeighted {
	return &QuantityWeighted{repo: repo}
}

// AverageUnitCost implements CostEstimator.
func (e *QuantityWeighted) AverageUnitCost(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, error) {
	total, quantity, err := e.repo.PurchaseTotalsByProduct(ctx, productID, cutoff)
	if err != nil {
		return types.Zero(), fmt.Errorf("load purchase totals: %w", err)
	}

	if !quantity.IsPositive() {
		return types.Zero(), nil
	}

	return total.Div(quantity.Decimal()).Round(2), nil
}

var (
	_ CostEstimator = (*UnweightedAverage)(nil)
	_ CostEstimator = (*QuantityWeighted)(nil)
)
