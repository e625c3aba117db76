package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool)
	balanceRepo := newPgxBalanceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		EntryRepo:   entryRepo,
		BalanceRepo: balanceRepo,
	}
}
