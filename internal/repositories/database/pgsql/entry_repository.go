package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/hashchain"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

const (
	// postingLockKey is the advisory lock key serializing all chain appends.
	// One global writer at a time keeps posting_seq, prev_hash and the
	// balance updates consistent without SERIALIZABLE retries.
	postingLockKey = 874223001

	uniqueViolationCode = "23505"

	// maxNumberRetries bounds the whole-transaction retry when two creators
	// race for the same per-day sequence number.
	maxNumberRetries = 3
)

const entryColumns = `entry_id, entry_number, entry_date, description, reference, tags, status,
		posted_by, posted_at, posting_seq, prev_hash, hash,
		created_at, created_by, last_updated_at, last_updated_by`

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

// SaveEntry persists a new draft entry in its own transaction, retrying when
// a concurrent creator wins the race for the same day's sequence number. The
// retry restarts the whole transaction because Postgres aborts it on the
// unique violation.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	var lastErr error
	for attempt := 0; attempt < maxNumberRetries; attempt++ {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		err = r.SaveEntryInTx(ctx, tx, entry)
		if err == nil {
			return r.Commit(ctx, tx)
		}
		_ = r.Rollback(ctx, tx)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			lastErr = err
			continue
		}
		return err
	}
	return apperrors.NewAppError(500, "failed to assign entry number after retries", lastErr)
}

// SaveEntryInTx persists a new entry and its lines inside an existing
// transaction, assigning the next JE-YYYYMMDD-NNNN number. Number assignment
// takes a per-day advisory lock scoped to the transaction, so concurrent
// creators for the same day serialize instead of colliding.
func (r *PgxEntryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	day := entry.CreatedAt.UTC().Format("20060102")

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('journal_entry_number_' || $1::text))`, day); err != nil {
		return apperrors.NewAppError(500, "failed to lock entry number sequence", err)
	}

	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE entry_number LIKE $1`,
		fmt.Sprintf("JE-%s-%%", day),
	).Scan(&count)
	if err != nil {
		return apperrors.NewAppError(500, "failed to count entry numbers", err)
	}
	entry.EntryNumber = fmt.Sprintf("JE-%s-%04d", day, count+1)

	insertEntry := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = tx.Exec(ctx, insertEntry,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.Tags,
		entry.Status,
		nullableString(entry.PostedBy),
		entry.PostedAt,
		nullableSeq(entry.PostingSeq),
		entry.PrevHash,
		entry.Hash,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return mapSaveError(err, "failed to insert journal entry "+entry.EntryID)
	}

	batch := &pgx.Batch{}
	insertLine := `
		INSERT INTO journal_lines (line_id, entry_id, line_no, account_id, debit, credit, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, line := range entry.Lines {
		batch.Queue(insertLine, line.LineID, entry.EntryID, i+1, line.AccountID, line.Debit, line.Credit, line.Description)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entry.Lines {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert journal lines for entry "+entry.EntryID, err)
		}
	}
	return nil
}

// AcquirePostingLock serializes chain appends for the transaction's lifetime.
func (r *PgxEntryRepository) AcquirePostingLock(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, postingLockKey); err != nil {
		return apperrors.NewAppError(500, "failed to acquire posting lock", err)
	}
	return nil
}

func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	row := r.Pool.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1`, entryID)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = r.findLines(ctx, r.Pool, entry.EntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntryByIDForUpdate loads and row-locks an entry within the transaction.
func (r *PgxEntryRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE`, entryID)
	entry, err := scanEntry(row)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = r.findLines(ctx, tx, entry.EntryID)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// FindChainTip returns the hash of the most recently posted entry, by
// posting sequence, or the genesis sentinel for an empty chain.
func (r *PgxEntryRepository) FindChainTip(ctx context.Context, tx pgx.Tx) (string, error) {
	var hash string
	err := tx.QueryRow(ctx, `
		SELECT hash FROM journal_entries
		WHERE posting_seq IS NOT NULL
		ORDER BY posting_seq DESC
		LIMIT 1
	`).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return hashchain.GenesisHash, nil
	}
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to read chain tip", err)
	}
	return hash, nil
}

// MarkEntryPosted writes the posting fields and claims the next chain
// position. Callers hold the posting lock, so the nextval and the chain tip
// read cannot interleave with another posting.
func (r *PgxEntryRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, posted_by = $3, posted_at = $4,
			posting_seq = nextval('journal_posting_seq'),
			prev_hash = $5, hash = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1
	`,
		entry.EntryID, entry.Status, entry.PostedBy, entry.PostedAt,
		entry.PrevHash, entry.Hash, entry.LastUpdatedAt, entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry posted "+entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal entry not found: " + entry.EntryID)
	}
	return nil
}

// MarkEntryVoided transitions POSTED to VOIDED, guarding against a
// concurrent void with the status predicate.
func (r *PgxEntryRepository) MarkEntryVoided(ctx context.Context, tx pgx.Tx, entryID string, userID string, now time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = $5
	`, entryID, domain.Voided, now, userID, domain.Posted)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark entry voided "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in POSTED status", apperrors.ErrConflict, entryID)
	}
	return nil
}

func (r *PgxEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, page, limit int, sortBy, sortOrder string) ([]domain.JournalEntry, int, error) {
	where, args := buildEntryFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM journal_entries je` + where
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count journal entries", err)
	}

	orderBy := entrySortColumn(sortBy) + " " + sortDirection(sortOrder)
	args = append(args, limit, pagination.Offset(page, limit))
	listQuery := fmt.Sprintf(`
		SELECT %s FROM journal_entries je
		%s
		ORDER BY %s, je.entry_number %s
		LIMIT $%d OFFSET $%d
	`, prefixedEntryColumns(), where, orderBy, sortDirection(sortOrder), len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to list journal entries", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachLines(ctx, entries); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// FindPostedEntries returns every posted entry in chain order with lines.
// Voided entries stay in the result because their content remains part of
// the chain.
func (r *PgxEntryRepository) FindPostedEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT `+entryColumns+` FROM journal_entries
		WHERE posting_seq IS NOT NULL
		ORDER BY posting_seq ASC
	`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load posted entries", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachLines(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// querier abstracts pool and transaction for read helpers.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxEntryRepository) findLines(ctx context.Context, q querier, entryID string) ([]domain.JournalLine, error) {
	rows, err := q.Query(ctx, `
		SELECT line_id, entry_id, account_id, debit, credit, description
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_no ASC
	`, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to load journal lines for entry "+entryID, err)
	}
	defer rows.Close()
	return scanLines(rows)
}

// attachLines loads the lines of all given entries in one query and groups
// them back onto their entries.
func (r *PgxEntryRepository) attachLines(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.EntryID
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT line_id, entry_id, account_id, debit, credit, description
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id, line_no ASC
	`, ids)
	if err != nil {
		return apperrors.NewAppError(500, "failed to load journal lines", err)
	}
	defer rows.Close()

	lines, err := scanLines(rows)
	if err != nil {
		return err
	}

	byEntry := make(map[string][]domain.JournalLine, len(entries))
	for _, line := range lines {
		byEntry[line.EntryID] = append(byEntry[line.EntryID], line)
	}
	for i := range entries {
		entries[i].Lines = byEntry[entries[i].EntryID]
	}
	return nil
}

func buildEntryFilter(filter domain.EntryFilter) (string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 5)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("je.status = $%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("je.entry_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conditions = append(conditions, fmt.Sprintf("je.entry_date <= $%d", len(args)))
	}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM journal_lines jl WHERE jl.entry_id = je.entry_id AND jl.account_id = $%d)", len(args)))
	}
	if filter.SearchText != "" {
		args = append(args, "%"+filter.SearchText+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(je.entry_number ILIKE $%d OR je.description ILIKE $%d OR je.reference ILIKE $%d)", n, n, n))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// entrySortColumn whitelists sortable columns, defaulting to entry date.
func entrySortColumn(sortBy string) string {
	switch sortBy {
	case "entryNumber":
		return "je.entry_number"
	case "createdAt":
		return "je.created_at"
	case "date", "":
		return "je.entry_date"
	default:
		return "je.entry_date"
	}
}

func sortDirection(sortOrder string) string {
	if strings.EqualFold(sortOrder, "asc") {
		return "ASC"
	}
	return "DESC"
}

func prefixedEntryColumns() string {
	cols := strings.Split(entryColumns, ",")
	for i, c := range cols {
		cols[i] = "je." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var postedBy *string
	var postingSeq *int64
	err := row.Scan(
		&e.EntryID, &e.EntryNumber, &e.EntryDate, &e.Description, &e.Reference, &e.Tags, &e.Status,
		&postedBy, &e.PostedAt, &postingSeq, &e.PrevHash, &e.Hash,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("journal entry not found")
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan journal entry", err)
	}
	if postedBy != nil {
		e.PostedBy = *postedBy
	}
	if postingSeq != nil {
		e.PostingSeq = *postingSeq
	}
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate journal entries", err)
	}
	return entries, nil
}

func scanLines(rows pgx.Rows) ([]domain.JournalLine, error) {
	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate journal lines", err)
	}
	return lines, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableSeq(seq int64) *int64 {
	if seq == 0 {
		return nil
	}
	return &seq
}

func mapSaveError(err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		// Bubble the raw violation so SaveEntry's retry loop can see it.
		return err
	}
	return apperrors.NewAppError(500, message, err)
}
