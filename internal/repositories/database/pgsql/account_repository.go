package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
)

const accountColumns = `account_id, code, name, account_type, normal_balance, description, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Code,
		account.Name,
		account.AccountType,
		account.NormalBalance,
		account.Description,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.NewAppError(409, "account code already exists: "+account.Code, apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert account "+account.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1`, accountID)
	return scanAccount(row)
}

// FindActiveAccountsByIDs returns the active accounts among the given IDs,
// keyed by ID. Callers detect missing or inactive accounts by absence.
func (r *PgxAccountRepository) FindActiveAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	rows, err := r.Pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1) AND is_active`, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load accounts by ids", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[account.AccountID] = *account
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate accounts", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count accounts", err)
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY code ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to iterate accounts", err)
	}
	return accounts, total, nil
}

func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedBy string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $2
		WHERE account_id = $1
	`, accountID, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account not found: " + accountID)
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID, &a.Code, &a.Name, &a.AccountType, &a.NormalBalance, &a.Description, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("account not found")
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan account", err)
	}
	return &a, nil
}
