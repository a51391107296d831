package valuation

import (
	"context"
	"testing"
	"time"

	"petrolog/internal/core/id"
	"petrolog/internal/core/types"
	"petrolog/internal/domain/catalogs/depot"
	"petrolog/internal/domain/stock"
)

type fakeStockSource struct {
	grouped []stock.DepotStock
}

func (s *fakeStockSource) ListActive(ctx context.Context) ([]stock.DepotStock, error) {
	return s.grouped, nil
}

type fakeFundsSource struct {
	bank types.Money
	cash types.Money
}

func (s *fakeFundsSource) ActiveBankBalances(ctx context.Context) (types.Money, error) {
	return s.bank, nil
}

func (s *fakeFundsSource) ActiveCashBalances(ctx context.Context) (types.Money, error) {
	return s.cash, nil
}

type fakeTripSource struct {
	trips []OpenTrip

	lastExcludeTransfers bool
}

func (s *fakeTripSource) OpenTrips(ctx context.Context, excludeTransfers bool) ([]OpenTrip, error) {
	s.lastExcludeTransfers = excludeTransfers
	return s.trips, nil
}

type fakeExpenseSource struct {
	total types.Money

	lastStart *time.Time
	lastEnd   *time.Time
}

func (s *fakeExpenseSource) InvestmentExpenses(ctx context.Context, start, end *time.Time) (types.Money, error) {
	s.lastStart = start
	s.lastEnd = end
	return s.total, nil
}

// fakeEstimator returns a fixed cost per product and records cutoffs.
type fakeEstimator struct {
	costs map[id.ID]types.Money

	lastCutoff *time.Time
}

func (e *fakeEstimator) AverageUnitCost(ctx context.Context, productID id.ID, cutoff *time.Time) (types.Money, error) {
	e.lastCutoff = cutoff
	return e.costs[productID], nil
}

func litres(v int64) types.Quantity {
	return types.NewQuantityFromInt(v)
}

func stockRecord(depotID *id.ID, productID id.ID, quantity int64, unitCost string) *stock.StockRecord {
	rec := stock.NewRecord(depotID, productID, litres(quantity), "L")
	if unitCost != "" {
		cost := types.MustMoney(unitCost)
		rec.UnitCost = &cost
	}
	return rec
}

func TestValuate_GrandTotalComposition(t *testing.T) {
	d := depot.NewDepot("DEP-001", "Main depot", litres(10000))
	gasoil := id.New()

	stocks := &fakeStockSource{grouped: []stock.DepotStock{{
		Depot: d,
		Records: []*stock.StockRecord{
			stockRecord(&d.ID, gasoil, 100, "10.00"), // 1000
			stockRecord(&d.ID, id.New(), 50, ""),     // no cost: skipped
			stockRecord(nil, gasoil, 30, "99.00"),    // reservoir: skipped
		},
	}}}
	trips := &fakeTripSource{trips: []OpenTrip{
		{ProductID: gasoil, Quantity: litres(40)},                 // 40 × 12.50 = 500
		{ProductID: gasoil, Quantity: litres(5), Delivered: true}, // skipped
	}}
	estimator := &fakeEstimator{costs: map[id.ID]types.Money{gasoil: types.MustMoney("12.50")}}

	svc := NewService(
		stocks,
		&fakeFundsSource{bank: types.MustMoney("2000.00"), cash: types.MustMoney("500.00")},
		trips,
		&fakeExpenseSource{total: types.MustMoney("300.00")},
		estimator,
	)

	snap, err := svc.Valuate(context.Background())
	if err != nil {
		t.Fatalf("valuate: %v", err)
	}

	checks := []struct {
		name string
		got  types.Money
		want string
	}{
		{"funds", snap.Funds, "2500.00"},
		{"warehouse stock", snap.WarehouseStock, "1000.00"},
		{"in-transit stock", snap.InTransitStock, "500.00"},
		{"capital expenditure", snap.CapitalExpenditure, "300.00"},
		{"grand total", snap.GrandTotal, "3700.00"}, // 2500 + 1000 + 500 − 300
	}
	for _, c := range checks {
		if !c.got.Equal(types.MustMoney(c.want)) {
			t.Errorf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}

	if !trips.lastExcludeTransfers {
		t.Error("cession trips not excluded from in-transit valuation")
	}
	if snap.StartDate != nil || snap.EndDate != nil {
		t.Error("unfiltered snapshot carries date bounds")
	}
	if snap.ComputedAt.IsZero() {
		t.Error("computed-at not stamped")
	}
}

func TestValuate_TripDepartureCutoff(t *testing.T) {
	gasoil := id.New()
	end := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	before := end.AddDate(0, 0, -3)
	after := end.AddDate(0, 0, 3)
	sameDayLater := time.Date(2026, time.March, 15, 23, 0, 0, 0, time.UTC)

	trips := &fakeTripSource{trips: []OpenTrip{
		{ProductID: gasoil, Quantity: litres(10), DepartureDate: &before},       // counts
		{ProductID: gasoil, Quantity: litres(20), DepartureDate: &after},        // excluded
		{ProductID: gasoil, Quantity: litres(30), DepartureDate: nil},           // always counts
		{ProductID: gasoil, Quantity: litres(40), DepartureDate: &sameDayLater}, // end is inclusive to end of day
	}}
	estimator := &fakeEstimator{costs: map[id.ID]types.Money{gasoil: types.MustMoney("1.00")}}

	svc := NewService(
		&fakeStockSource{},
		&fakeFundsSource{bank: types.Zero(), cash: types.Zero()},
		trips,
		&fakeExpenseSource{total: types.Zero()},
		estimator,
	)

	snap, err := svc.ValuateRange(context.Background(), nil, &end)
	if err != nil {
		t.Fatalf("valuate range: %v", err)
	}

	if !snap.InTransitStock.Equal(types.MustMoney("80.00")) {
		t.Errorf("in-transit = %s, want 80 (10 + 30 + 40)", snap.InTransitStock)
	}

	// The estimator sees the end-of-day cutoff
	if estimator.lastCutoff == nil || estimator.lastCutoff.Before(sameDayLater) {
		t.Errorf("estimator cutoff = %v, want end of %s", estimator.lastCutoff, end.Format(time.DateOnly))
	}

	// The snapshot echoes the bound as the caller passed it
	if snap.EndDate == nil || !snap.EndDate.Equal(end) {
		t.Errorf("snapshot end = %v, want %v unmodified", snap.EndDate, end)
	}
}

func TestValuateMonth_Bounds(t *testing.T) {
	expenses := &fakeExpenseSource{total: types.Zero()}
	svc := NewService(
		&fakeStockSource{},
		&fakeFundsSource{bank: types.Zero(), cash: types.Zero()},
		&fakeTripSource{},
		expenses,
		&fakeEstimator{},
	)

	snap, err := svc.ValuateMonth(context.Background(), 2026, time.February)
	if err != nil {
		t.Fatalf("valuate month: %v", err)
	}

	wantStart := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	if snap.StartDate == nil || !snap.StartDate.Equal(wantStart) {
		t.Errorf("start = %v, want %s", snap.StartDate, wantStart)
	}
	if snap.EndDate == nil || snap.EndDate.Day() != 28 || snap.EndDate.Month() != time.February {
		t.Errorf("end = %v, want last day of February", snap.EndDate)
	}

	// The expense source received the start bound as given and the end
	// bound pushed to end of day
	if expenses.lastStart == nil || !expenses.lastStart.Equal(wantStart) {
		t.Errorf("expense start = %v", expenses.lastStart)
	}
	if expenses.lastEnd == nil || expenses.lastEnd.Day() != 28 ||
		expenses.lastEnd.Hour() != 23 || expenses.lastEnd.Minute() != 59 {
		t.Errorf("expense end = %v, want end of Feb 28", expenses.lastEnd)
	}
}

func TestValuateRange_EndBeforeStart(t *testing.T) {
	svc := NewService(
		&fakeStockSource{},
		&fakeFundsSource{},
		&fakeTripSource{},
		&fakeExpenseSource{},
		&fakeEstimator{},
	)

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	if _, err := svc.ValuateRange(context.Background(), &start, &end); err == nil {
		t.Fatal("inverted range accepted")
	}
}
