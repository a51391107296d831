package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"petrolog/internal/core/types"
	"petrolog/internal/domain/catalogs/treasury"
	"petrolog/internal/infrastructure/storage/postgres"
)

const (
	bankAccountTable  = "cat_bank_accounts"
	cashRegisterTable = "cat_cash_registers"
)

// BankAccountRepo implements treasury.BankRepository.
type BankAccountRepo struct {
	*BaseCatalogRepo[*treasury.BankAccount]
}

// NewBankAccountRepo creates a new bank account repository.
func NewBankAccountRepo(txManager *postgres.TxManager) *BankAccountRepo {
	return &BankAccountRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*treasury.BankAccount](
			txManager,
			bankAccountTable,
			postgres.ExtractDBColumns[treasury.BankAccount](),
			func() *treasury.BankAccount { return &treasury.BankAccount{} },
		),
	}
}

// SumActiveBalances totals the balances of active, non-deleted accounts.
func (r *BankAccountRepo) SumActiveBalances(ctx context.Context) (types.Money, error) {
	return sumActiveBalances(ctx, r.Querier(ctx), r.Builder(), bankAccountTable)
}

// CashRegisterRepo implements treasury.CashRepository.
type CashRegisterRepo struct {
	*BaseCatalogRepo[*treasury.CashRegister]
}

// NewCashRegisterRepo creates a new cash register repository.
func NewCashRegisterRepo(txManager *postgres.TxManager) *CashRegisterRepo {
	return &CashRegisterRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*treasury.CashRegister](
			txManager,
			cashRegisterTable,
			postgres.ExtractDBColumns[treasury.CashRegister](),
			func() *treasury.CashRegister { return &treasury.CashRegister{} },
		),
	}
}

// SumActiveBalances totals the balances of active, non-deleted registers.
func (r *CashRegisterRepo) SumActiveBalances(ctx context.Context) (types.Money, error) {
	return sumActiveBalances(ctx, r.Querier(ctx), r.Builder(), cashRegisterTable)
}

func sumActiveBalances(ctx context.Context, querier postgres.Querier, b squirrel.StatementBuilderType, table string) (types.Money, error) {
	q := b.
		Select("COALESCE(SUM(balance), 0)").
		From(table).
		Where(squirrel.Eq{"active": true}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := querier.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum balances for %s: %w", table, err)
	}

	return total, nil
}

var (
	_ treasury.BankRepository = (*BankAccountRepo)(nil)
	_ treasury.CashRepository = (*CashRegisterRepo)(nil)
)
