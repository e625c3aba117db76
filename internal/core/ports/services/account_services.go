package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

// AccountSvcFacade defines operations on the chart of accounts.
type AccountSvcFacade interface {
	// CreateAccount registers a new account in the chart of accounts.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves an account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindActiveByIDs retrieves the active accounts among the given IDs,
	// keyed by ID.
	FindActiveByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts.
	ListAccounts(ctx context.Context, page, limit int) ([]domain.Account, pagination.Meta, error)

	// DeactivateAccount marks an account inactive for future journal lines.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
