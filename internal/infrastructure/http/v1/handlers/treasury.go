package handlers

import (
	"petrolog/internal/domain"
	"petrolog/internal/domain/catalogs/treasury"
	"petrolog/internal/infrastructure/http/v1/dto"
)

// BankAccountHTTPHandler is the catalog handler specialization for bank
// accounts.
type BankAccountHTTPHandler = CatalogHandler[
	*treasury.BankAccount,
	dto.CreateBankAccountRequest,
	dto.UpdateBankAccountRequest,
]

// NewBankAccountHandler creates the bank account catalog handler.
func NewBankAccountHandler(
	base *BaseHandler,
	service *domain.CatalogService[*treasury.BankAccount],
) *BankAccountHTTPHandler {

	config := CatalogHandlerConfig[
		*treasury.BankAccount,
		dto.CreateBankAccountRequest,
		dto.UpdateBankAccountRequest,
	]{
		Service:    service,
		EntityName: "bank account",

		MapCreateDTO: func(req dto.CreateBankAccountRequest) *treasury.BankAccount {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateBankAccountRequest, existing *treasury.BankAccount) *treasury.BankAccount {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *treasury.BankAccount) any {
			return dto.FromBankAccount(entity)
		},
	}

	return NewCatalogHandler(base, config)
}

// CashRegisterHTTPHandler is the catalog handler specialization for cash
// registers.
type CashRegisterHTTPHandler = CatalogHandler[
	*treasury.CashRegister,
	dto.CreateCashRegisterRequest,
	dto.UpdateCashRegisterRequest,
]

// NewCashRegisterHandler creates the cash register catalog handler.
func NewCashRegisterHandler(
	base *BaseHandler,
	service *domain.CatalogService[*treasury.CashRegister],
) *CashRegisterHTTPHandler {

	config := CatalogHandlerConfig[
		*treasury.CashRegister,
		dto.CreateCashRegisterRequest,
		dto.UpdateCashRegisterRequest,
	]{
		Service:    service,
		EntityName: "cash register",

		MapCreateDTO: func(req dto.CreateCashRegisterRequest) *treasury.CashRegister {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateCashRegisterRequest, existing *treasury.CashRegister) *treasury.CashRegister {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *treasury.CashRegister) any {
			return dto.FromCashRegister(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
