package valuation

import (
	"context"
	"time"

	"petrolog/internal/core/types"
)

// FundsSource reports current liquid balances. Balances are always
// "as of now" regardless of any date filter applied to the snapshot.
type FundsSource interface {
	ActiveBankBalances(ctx context.Context) (types.Money, error)
	ActiveCashBalances(ctx context.Context) (types.Money, error)
}

// TripSource reports voyages still on the road. With excludeTransfers
// set, no-payment cession trips are left out.
type TripSource interface {
	OpenTrips(ctx context.Context, excludeTransfers bool) ([]OpenTrip, error)
}

// ExpenseSource reports capital-expenditure spend. Both bounds are
// optional; the end bound is inclusive to end of day.
type ExpenseSource interface {
	InvestmentExpenses(ctx context.Context, start, end *time.Time) (types.Money, error)
}
