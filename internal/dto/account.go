package dto

import "github.com/finbooks/finbooks_backend/internal/core/domain"

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code               string  `json:"code" binding:"required,min=1,max=20"`
	Name               string  `json:"name" binding:"required,min=1,max=200"`
	AccountType        string  `json:"accountType" binding:"required,accounttype"`
	ParentAccountID    *string `json:"parentAccountID,omitempty"`
	IsControlAccount   bool    `json:"isControlAccount"`
	ControlAccountType string  `json:"controlAccountType,omitempty" binding:"omitempty,oneof=AP AR"`
	Purpose            string  `json:"purpose,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID          string  `json:"accountID"`
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	AccountType        string  `json:"accountType"`
	NormalSide         string  `json:"normalSide"`
	ParentAccountID    *string `json:"parentAccountID,omitempty"`
	Depth              int     `json:"depth"`
	IsControlAccount   bool    `json:"isControlAccount"`
	ControlAccountType string  `json:"controlAccountType,omitempty"`
	Purpose            string  `json:"purpose,omitempty"`
	IsActive           bool    `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          a.AccountID,
		Code:               a.Code,
		Name:               a.Name,
		AccountType:        string(a.AccountType),
		NormalSide:         string(a.NormalSide()),
		ParentAccountID:    a.ParentAccountID,
		Depth:              a.Depth,
		IsControlAccount:   a.IsControlAccount,
		ControlAccountType: string(a.ControlAccountType),
		Purpose:            string(a.Purpose),
		IsActive:           a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
