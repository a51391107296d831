package valuation

import (
	"context"
	"fmt"
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/acquisition"
	"petrolog/internal/domain/stock"
)

// StockSource provides current stock grouped by active depot.
// *stock.Service satisfies it.
type StockSource interface {
	ListActive(ctx context.Context) ([]stock.DepotStock, error)
}

// Service composes the capital snapshot from funds, warehouse stock,
// in-transit stock and capital expenditure.
type Service struct {
	stocks    StockSource
	funds     FundsSource
	trips     TripSource
	expenses  ExpenseSource
	estimator acquisition.CostEstimator
}

// NewService creates the valuation service.
func NewService(
	stocks StockSource,
	funds FundsSource,
	trips TripSource,
	expenses ExpenseSource,
	estimator acquisition.CostEstimator,
) *Service {
	return &Service{
		stocks:    stocks,
		funds:     funds,
		trips:     trips,
		expenses:  expenses,
		estimator: estimator,
	}
}

// Valuate computes the current snapshot with no date filter.
func (s *Service) Valuate(ctx context.Context) (*CapitalSnapshot, error) {
	return s.compute(ctx, nil, nil)
}

// ValuateMonth computes the snapshot for one calendar month.
func (s *Service) ValuateMonth(ctx context.Context, year int, month time.Month) (*CapitalSnapshot, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return s.compute(ctx, &start, &end)
}

// ValuateRange computes the snapshot for an arbitrary inclusive range.
// Either bound may be nil.
func (s *Service) ValuateRange(ctx context.Context, start, end *time.Time) (*CapitalSnapshot, error) {
	if start != nil && end != nil && end.Before(*start) {
		return nil, fmt.Errorf("valuation range: end %s before start %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return s.compute(ctx, start, end)
}

func (s *Service) compute(ctx context.Context, start, end *time.Time) (*CapitalSnapshot, error) {
	// The inclusive end bound is pushed to end of day for querying only;
	// the snapshot echoes the caller's original bound.
	queryEnd := endOfDay(end)

	funds, err := s.computeFunds(ctx)
	if err != nil {
		return nil, err
	}

	warehouseValue, err := s.computeWarehouseStock(ctx)
	if err != nil {
		return nil, err
	}

	transitValue, err := s.computeInTransit(ctx, queryEnd)
	if err != nil {
		return nil, err
	}

	capex, err := s.expenses.InvestmentExpenses(ctx, start, queryEnd)
	if err != nil {
		return nil, fmt.Errorf("sum investment expenses: %w", err)
	}

	total := funds.Add(warehouseValue).Add(transitValue).Sub(capex)

	return &CapitalSnapshot{
		Funds:              funds,
		WarehouseStock:     warehouseValue,
		InTransitStock:     transitValue,
		CapitalExpenditure: capex,
		GrandTotal:         total,
		ComputedAt:         time.Now().UTC(),
		StartDate:          start,
		EndDate:            end,
	}, nil
}

// computeFunds sums active bank and cash balances as of now. The date
// filter never reconstructs historical balances.
func (s *Service) computeFunds(ctx context.Context) (types.Money, error) {
	bank, err := s.funds.ActiveBankBalances(ctx)
	if err != nil {
		return types.Zero(), fmt.Errorf("sum bank balances: %w", err)
	}
	cash, err := s.funds.ActiveCashBalances(ctx)
	if err != nil {
		return types.Zero(), fmt.Errorf("sum cash balances: %w", err)
	}
	return bank.Add(cash), nil
}

// computeWarehouseStock values on-hand stock in active depots at its
// recorded unit cost. Reservoir records and records without a recorded
// cost contribute nothing.
func (s *Service) computeWarehouseStock(ctx context.Context) (types.Money, error) {
	grouped, err := s.stocks.ListActive(ctx)
	if err != nil {
		return types.Zero(), fmt.Errorf("list active stock: %w", err)
	}

	total := types.Zero()
	for _, ds := range grouped {
		for _, rec := range ds.Records {
			if rec.IsReservoir() || rec.UnitCost == nil {
				continue
			}
			total = total.Add(rec.UnitCost.Mul(rec.Quantity.Decimal()))
		}
	}
	return total, nil
}

// computeInTransit values undelivered, non-transfer trips at the
// estimated acquisition cost of their product. When an end date is
// given, only trips departed on or before it count; trips without a
// departure date always count.
func (s *Service) computeInTransit(ctx context.Context, end *time.Time) (types.Money, error) {
	trips, err := s.trips.OpenTrips(ctx, true)
	if err != nil {
		return types.Zero(), fmt.Errorf("list open trips: %w", err)
	}

	quantities := make(map[id.ID]types.Quantity)
	for _, t := range trips {
		if t.Delivered {
			continue
		}
		if end != nil && t.DepartureDate != nil && t.DepartureDate.After(*end) {
			continue
		}
		quantities[t.ProductID] += t.Quantity
	}

	total := types.Zero()
	for productID, qty := range quantities {
		unitCost, err := s.estimator.AverageUnitCost(ctx, productID, end)
		if err != nil {
			return types.Zero(), fmt.Errorf("estimate unit cost for %s: %w", productID, err)
		}
		total = total.Add(unitCost.Mul(qty.Decimal()))
	}
	return total, nil
}

// endOfDay pushes the end bound to the last nanosecond of its day so the
// bound is inclusive.
func endOfDay(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	eod := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
	return &eod
}
