package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

type PgxBalanceRepository struct {
	BaseRepository
}

// newPgxBalanceRepository creates a new repository for running balances.
func newPgxBalanceRepository(pool *pgxpool.Pool) portsrepo.BalanceRepositoryFacade {
	return &PgxBalanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BalanceRepositoryFacade = (*PgxBalanceRepository)(nil)

// ApplyLinesInTx folds posted lines into the per-account totals with
// additive upserts. Amounts are applied as-is; the stored balance is the raw
// debit-minus-credit net.
func (r *PgxBalanceRepository) ApplyLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine, now time.Time) error {
	upsert := `
		INSERT INTO account_balances (account_id, debit_total, credit_total, balance, last_updated)
		VALUES ($1, $2, $3, $2 - $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			debit_total = account_balances.debit_total + EXCLUDED.debit_total,
			credit_total = account_balances.credit_total + EXCLUDED.credit_total,
			balance = account_balances.balance + EXCLUDED.balance,
			last_updated = EXCLUDED.last_updated
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(upsert, line.AccountID, line.Debit, line.Credit, now)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to update account balances", err)
		}
	}
	return nil
}

func (r *PgxBalanceRepository) FindBalanceByAccountID(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	var b domain.AccountBalance
	err := r.Pool.QueryRow(ctx, `
		SELECT account_id, debit_total, credit_total, balance, last_updated
		FROM account_balances
		WHERE account_id = $1
	`, accountID).Scan(&b.AccountID, &b.DebitTotal, &b.CreditTotal, &b.Balance, &b.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("no balance for account " + accountID)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load account balance", err)
	}
	return &b, nil
}

// ListBalances joins balances with their accounts, filtered and ordered by
// account code.
func (r *PgxBalanceRepository) ListBalances(ctx context.Context, filter domain.BalanceFilter) ([]domain.AccountBalanceDetail, error) {
	conditions := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if filter.AccountType != "" {
		args = append(args, filter.AccountType)
		conditions = append(conditions, fmt.Sprintf("a.account_type = $%d", len(args)))
	}
	if filter.MinBalance != nil {
		args = append(args, *filter.MinBalance)
		conditions = append(conditions, fmt.Sprintf("b.balance >= $%d", len(args)))
	}
	if filter.MaxBalance != nil {
		args = append(args, *filter.MaxBalance)
		conditions = append(conditions, fmt.Sprintf("b.balance <= $%d", len(args)))
	}
	if filter.SearchText != "" {
		args = append(args, "%"+filter.SearchText+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(a.name ILIKE $%d OR a.code ILIKE $%d)", n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
		SELECT b.account_id, b.debit_total, b.credit_total, b.balance, b.last_updated,
			a.code, a.name, a.account_type, a.normal_balance
		FROM account_balances b
		JOIN accounts a ON a.account_id = b.account_id
	` + where + `
		ORDER BY a.code ASC
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list account balances", err)
	}
	defer rows.Close()

	var details []domain.AccountBalanceDetail
	for rows.Next() {
		var d domain.AccountBalanceDetail
		err := rows.Scan(
			&d.AccountID, &d.DebitTotal, &d.CreditTotal, &d.Balance, &d.LastUpdated,
			&d.AccountCode, &d.AccountName, &d.AccountType, &d.NormalBalance,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account balance", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate account balances", err)
	}
	return details, nil
}
