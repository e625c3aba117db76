package dto

import (
	"time"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

// CreateAccountRequest is the request body for registering a new account.
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	AccountType string `json:"accountType" binding:"required,accounttype"`
	Description string `json:"description"`
}

// ListAccountsRequest carries the query parameters for listing accounts.
type ListAccountsRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID     string    `json:"accountId"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	NormalBalance string    `json:"normalBalance"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListAccountsResponse is a page of accounts with pagination metadata.
type ListAccountsResponse struct {
	Accounts   []AccountResponse `json:"accounts"`
	Pagination pagination.Meta   `json:"pagination"`
}

// ToAccountResponse maps a domain account to its API representation.
func ToAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     account.AccountID,
		Code:          account.Code,
		Name:          account.Name,
		AccountType:   string(account.AccountType),
		NormalBalance: string(account.NormalBalance),
		Description:   account.Description,
		IsActive:      account.IsActive,
		CreatedAt:     account.CreatedAt,
	}
}

// ToListAccountsResponse maps a page of domain accounts to the API shape.
func ToListAccountsResponse(accounts []domain.Account, meta pagination.Meta) ListAccountsResponse {
	out := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = ToAccountResponse(account)
	}
	return ListAccountsResponse{Accounts: out, Pagination: meta}
}
