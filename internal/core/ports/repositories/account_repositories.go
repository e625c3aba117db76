package repositories

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindActiveAccountsByIDs retrieves the active accounts among the given
	// identifiers, keyed by ID. Missing or inactive accounts are absent from
	// the result rather than an error.
	FindActiveAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a page of accounts plus the total count.
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, int, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive so it cannot be used on
	// new journal lines. Historical entries keep referencing it.
	DeactivateAccount(ctx context.Context, accountID string, updatedBy string) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
