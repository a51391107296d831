package treasury

import (
	"context"

	"petrolog/internal/core/types"
	"petrolog/internal/domain"
)

// BankRepository defines persistence for bank accounts.
type BankRepository interface {
	domain.CatalogRepository[*BankAccount]

	// SumActiveBalances totals balances of all active bank accounts.
	SumActiveBalances(ctx context.Context) (types.Money, error)
}

// CashRepository defines persistence for cash registers.
type CashRepository interface {
	domain.CatalogRepository[*CashRegister]

	// SumActiveBalances totals balances of all active cash registers.
	SumActiveBalances(ctx context.Context) (types.Money, error)
}
