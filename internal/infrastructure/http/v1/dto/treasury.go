package dto

import (
	"petrolog/internal/core/types"
	"petrolog/internal/domain/catalogs/treasury"
)

// --- Bank Account ---

// CreateBankAccountRequest is the request body for creating a bank account.
type CreateBankAccountRequest struct {
	Code          string      `json:"code"`
	Name          string      `json:"name" binding:"required"`
	BankName      string      `json:"bankName"`
	AccountNumber string      `json:"accountNumber" binding:"required"`
	Balance       types.Money `json:"balance"`
	Active        bool        `json:"active"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateBankAccountRequest) ToEntity() *treasury.BankAccount {
	a := treasury.NewBankAccount(r.Code, r.Name, r.BankName, r.AccountNumber)
	a.Balance = r.Balance
	a.Active = r.Active
	return a
}

// UpdateBankAccountRequest is the request body for updating a bank account.
type UpdateBankAccountRequest struct {
	Code          string      `json:"code"`
	Name          string      `json:"name" binding:"required"`
	BankName      string      `json:"bankName"`
	AccountNumber string      `json:"accountNumber" binding:"required"`
	Balance       types.Money `json:"balance"`
	Active        bool        `json:"active"`
	Version       int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateBankAccountRequest) ApplyTo(a *treasury.BankAccount) {
	a.Code = r.Code
	a.Name = r.Name
	a.BankName = r.BankName
	a.AccountNumber = r.AccountNumber
	a.Balance = r.Balance
	a.Active = r.Active
	a.Version = r.Version
}

// BankAccountResponse is the response body for a bank account.
type BankAccountResponse struct {
	ID            string      `json:"id"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	BankName      string      `json:"bankName"`
	AccountNumber string      `json:"accountNumber"`
	Balance       types.Money `json:"balance"`
	Active        bool        `json:"active"`
	DeletionMark  bool        `json:"deletionMark"`
	Version       int         `json:"version"`
}

// FromBankAccount creates response DTO from domain entity.
func FromBankAccount(a *treasury.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:            a.ID.String(),
		Code:          a.Code,
		Name:          a.Name,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
		Active:        a.Active,
		DeletionMark:  a.DeletionMark,
		Version:       a.Version,
	}
}

// --- Cash Register ---

// CreateCashRegisterRequest is the request body for creating a cash register.
type CreateCashRegisterRequest struct {
	Code     string      `json:"code"`
	Name     string      `json:"name" binding:"required"`
	Location string      `json:"location"`
	Balance  types.Money `json:"balance"`
	Active   bool        `json:"active"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCashRegisterRequest) ToEntity() *treasury.CashRegister {
	cr := treasury.NewCashRegister(r.Code, r.Name, r.Location)
	cr.Balance = r.Balance
	cr.Active = r.Active
	return cr
}

// UpdateCashRegisterRequest is the request body for updating a cash register.
type UpdateCashRegisterRequest struct {
	Code     string      `json:"code"`
	Name     string      `json:"name" binding:"required"`
	Location string      `json:"location"`
	Balance  types.Money `json:"balance"`
	Active   bool        `json:"active"`
	Version  int         `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCashRegisterRequest) ApplyTo(cr *treasury.CashRegister) {
	cr.Code = r.Code
	cr.Name = r.Name
	cr.Location = r.Location
	cr.Balance = r.Balance
	cr.Active = r.Active
	cr.Version = r.Version
}

// CashRegisterResponse is the response body for a cash register.
type CashRegisterResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Location     string      `json:"location"`
	Balance      types.Money `json:"balance"`
	Active       bool        `json:"active"`
	DeletionMark bool        `json:"deletionMark"`
	Version      int         `json:"version"`
}

// FromCashRegister creates response DTO from domain entity.
func FromCashRegister(cr *treasury.CashRegister) *CashRegisterResponse {
	return &CashRegisterResponse{
		ID:           cr.ID.String(),
		Code:         cr.Code,
		Name:         cr.Name,
		Location:     cr.Location,
		Balance:      cr.Balance,
		Active:       cr.Active,
		DeletionMark: cr.DeletionMark,
		Version:      cr.Version,
	}
}
