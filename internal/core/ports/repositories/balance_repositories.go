package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// BalanceReader defines read operations for running account balances
type BalanceReader interface {
	// ListBalances retrieves balances joined with account details, filtered
	// and ordered by account code.
	ListBalances(ctx context.Context, filter domain.BalanceFilter) ([]domain.AccountBalanceDetail, error)

	// FindBalanceByAccountID retrieves the running balance for one account.
	FindBalanceByAccountID(ctx context.Context, accountID string) (*domain.AccountBalance, error)
}

// BalanceWriter defines write operations for running account balances
type BalanceWriter interface {
	// ApplyLinesInTx additively folds posted lines into the per-account
	// totals inside an existing transaction. Amounts are applied blind; sign
	// interpretation happens at read time.
	ApplyLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine, now time.Time) error
}

// BalanceRepositoryFacade combines all balance repository interfaces.
type BalanceRepositoryFacade interface {
	BalanceReader
	BalanceWriter
}
