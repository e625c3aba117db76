package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves an entry with its lines by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered page of entries (with lines) plus the
	// total matching count.
	ListEntries(ctx context.Context, filter domain.EntryFilter, page, limit int, sortBy, sortOrder string) ([]domain.JournalEntry, int, error)

	// FindPostedEntries retrieves every posted entry with its lines, ordered
	// by posting sequence ascending. Used by chain verification.
	FindPostedEntries(ctx context.Context) ([]domain.JournalEntry, error)
}

// EntryWriter defines write operations for journal entry data
type EntryWriter interface {
	// SaveEntry persists a new draft entry and its lines, assigning the
	// per-day entry number. The generated number is written back to the
	// passed entry.
	SaveEntry(ctx context.Context, entry *domain.JournalEntry) error
}

// PostingSupport defines the transaction-scoped operations the posting
// engine composes into one atomic unit.
type PostingSupport interface {
	// AcquirePostingLock serializes all posting activity for the lifetime of
	// the transaction, so the chain-tip read and the append cannot interleave
	// across concurrent postings.
	AcquirePostingLock(ctx context.Context, tx pgx.Tx) error

	// FindEntryByIDForUpdate loads an entry with its lines and row-locks it
	// within the transaction.
	FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error)

	// FindChainTip returns the hash of the most recently posted entry, or
	// the genesis sentinel if nothing has been posted yet.
	FindChainTip(ctx context.Context, tx pgx.Tx) (string, error)

	// SaveEntryInTx persists a new entry and its lines inside an existing
	// transaction, assigning the entry number (used when voiding creates the
	// reversing entry).
	SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error

	// MarkEntryPosted writes the posting fields (status, actor, timestamp,
	// prevHash, hash) and assigns the next posting sequence value.
	MarkEntryPosted(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// MarkEntryVoided transitions a POSTED entry to VOIDED. It fails with
	// ErrConflict if the entry is no longer POSTED, which guards against a
	// concurrent void of the same entry.
	MarkEntryVoided(ctx context.Context, tx pgx.Tx, entryID string, userID string, now time.Time) error
}

// EntryRepositoryFacade combines all journal-entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
	PostingSupport
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
