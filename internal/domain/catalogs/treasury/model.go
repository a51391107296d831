// Package treasury provides the liquid-funds catalogs: bank accounts and
// cash registers. The two are a closed variant discriminated by Kind, not
// a shared base row with nullable subtype columns.
package treasury

import (
	"context"

	"petrolog/internal/core/apperror"
	"petrolog/internal/core/entity"
	"petrolog/internal/core/types"
)

// Kind discriminates the account variant.
type Kind string

const (
	KindBank         Kind = "bank"
	KindCashRegister Kind = "cash_register"
)

// Account is the closed variant over bank accounts and cash registers.
// Only the two types in this package implement it.
type Account interface {
	entity.Validatable

	// AccountKind returns the variant discriminator.
	AccountKind() Kind

	// CurrentBalance returns the account balance.
	CurrentBalance() types.Money

	// IsActive reports whether the account participates in funds totals.
	IsActive() bool
}

// BankAccount is a bank-held account.
type BankAccount struct {
	entity.Catalog

	BankName      string      `db:"bank_name" json:"bankName"`
	AccountNumber string      `db:"account_number" json:"accountNumber"`
	Balance       types.Money `db:"balance" json:"balance"`
	Active        bool        `db:"active" json:"active"`
}

// NewBankAccount creates an active bank account.
func NewBankAccount(code, name, bankName, accountNumber string) *BankAccount {
	return &BankAccount{
		Catalog:       entity.NewCatalog(code, name),
		BankName:      bankName,
		AccountNumber: accountNumber,
		Active:        true,
	}
}

func (a *BankAccount) AccountKind() Kind           { return KindBank }
func (a *BankAccount) CurrentBalance() types.Money { return a.Balance }
func (a *BankAccount) IsActive() bool              { return a.Active }

// Validate implements entity.Validatable.
func (a *BankAccount) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}
	if a.AccountNumber == "" {
		return apperror.NewValidation("account number is required").
			WithDetail("field", "accountNumber")
	}
	return nil
}

// CashRegister is an on-site cash drawer.
type CashRegister struct {
	entity.Catalog

	Location string      `db:"location" json:"location"`
	Balance  types.Money `db:"balance" json:"balance"`
	Active   bool        `db:"active" json:"active"`
}

// NewCashRegister creates an active cash register.
func NewCashRegister(code, name, location string) *CashRegister {
	return &CashRegister{
		Catalog:  entity.NewCatalog(code, name),
		Location: location,
		Active:   true,
	}
}

func (c *CashRegister) AccountKind() Kind           { return KindCashRegister }
func (c *CashRegister) CurrentBalance() types.Money { return c.Balance }
func (c *CashRegister) IsActive() bool              { return c.Active }

// Validate implements entity.Validatable.
func (c *CashRegister) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}

// Compile-time closure of the variant.
var (
	_ Account = (*BankAccount)(nil)
	_ Account = (*CashRegister)(nil)
)
