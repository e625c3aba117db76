package services

import (
	"context"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

// LedgerSvcFacade defines the journal and ledger operations exposed to the
// transport layer.
type LedgerSvcFacade interface {
	// CreateEntry validates and persists a new DRAFT journal entry.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// PostEntry transitions a DRAFT entry to POSTED, appends it to the hash
	// chain and folds its lines into the running balances, atomically.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// VoidEntry marks a POSTED entry VOIDED and posts its reversing entry in
	// the same transaction.
	VoidEntry(ctx context.Context, entryID string, userID string, reason string) (*domain.VoidResult, error)

	// GetEntryByID retrieves a single entry with its lines.
	GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered, paginated page of entries.
	ListEntries(ctx context.Context, filter domain.EntryFilter, page, limit int, sortBy, sortOrder string) ([]domain.JournalEntry, pagination.Meta, error)

	// GetBalances retrieves running balances with account details.
	GetBalances(ctx context.Context, filter domain.BalanceFilter) ([]domain.AccountBalanceDetail, error)

	// GetSummary aggregates balances into a trial-balance style summary with
	// natural-sign totals per account type.
	GetSummary(ctx context.Context) (*domain.LedgerSummary, error)

	// VerifyChain recomputes every posted entry's hash in posting order and
	// reports any break or mismatch.
	VerifyChain(ctx context.Context) (*domain.ChainReport, error)
}
