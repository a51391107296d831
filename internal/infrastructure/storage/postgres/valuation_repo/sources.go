// Package valuation_repo provides the PostgreSQL-backed collaborators of
// the capital valuation service: funds balances, open trips, and
// investment expenses.
package valuation_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"petrolog/internal/core/types"
	"petrolog/internal/domain/catalogs/treasury"
	"petrolog/internal/domain/valuation"
	"petrolog/internal/infrastructure/storage/postgres"
)

// FundsSource adapts the treasury repositories to valuation.FundsSource.
type FundsSource struct {
	banks treasury.BankRepository
	cash  treasury.CashRepository
}

// NewFundsSource creates the funds adapter.
func NewFundsSource(banks treasury.BankRepository, cash treasury.CashRepository) *FundsSource {
	return &FundsSource{banks: banks, cash: cash}
}

// ActiveBankBalances implements valuation.FundsSource.
func (s *FundsSource) ActiveBankBalances(ctx context.Context) (types.Money, error) {
	return s.banks.SumActiveBalances(ctx)
}

// ActiveCashBalances implements valuation.FundsSource.
func (s *FundsSource) ActiveCashBalances(ctx context.Context) (types.Money, error) {
	return s.cash.SumActiveBalances(ctx)
}

const tripTable = "doc_trips"

// TripSource reads open voyages from the trip documents written by the
// dispatch workflow.
type TripSource struct {
	txManager *postgres.TxManager
}

// NewTripSource creates the trip source.
func NewTripSource(txManager *postgres.TxManager) *TripSource {
	return &TripSource{txManager: txManager}
}

// OpenTrips implements valuation.TripSource.
func (s *TripSource) OpenTrips(ctx context.Context, excludeTransfers bool) ([]valuation.OpenTrip, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("product_id", "quantity", "departure_date", "delivered").
		From(tripTable).
		Where(squirrel.Eq{"delivered": false})

	if excludeTransfers {
		q = q.Where(squirrel.Eq{"is_transfer": false})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var trips []valuation.OpenTrip
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &trips, sql, args...); err != nil {
		return nil, fmt.Errorf("open trips: %w", err)
	}

	return trips, nil
}

const expenseTable = "doc_expenses"

// ExpenseSource reads investment-category expense documents.
type ExpenseSource struct {
	txManager *postgres.TxManager
}

// NewExpenseSource creates the expense source.
func NewExpenseSource(txManager *postgres.TxManager) *ExpenseSource {
	return &ExpenseSource{txManager: txManager}
}

// InvestmentExpenses implements valuation.ExpenseSource.
func (s *ExpenseSource) InvestmentExpenses(ctx context.Context, start, end *time.Time) (types.Money, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("COALESCE(SUM(amount), 0)").
		From(expenseTable).
		Where(squirrel.Eq{"category": "investment"})

	if start != nil {
		q = q.Where(squirrel.GtOrEq{"incurred_at": *start})
	}
	if end != nil {
		q = q.Where(squirrel.LtOrEq{"incurred_at": *end})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("investment expenses: %w", err)
	}

	return total, nil
}

var (
	_ valuation.FundsSource   = (*FundsSource)(nil)
	_ valuation.TripSource    = (*TripSource)(nil)
	_ valuation.ExpenseSource = (*ExpenseSource)(nil)
)
