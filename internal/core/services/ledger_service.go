package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/middleware"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/accounting"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/hashchain"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

var (
	// ErrInsufficientLines indicates an entry with fewer than two lines.
	ErrInsufficientLines = fmt.Errorf("%w: journal entry requires at least two lines", apperrors.ErrValidation)
	// ErrDescriptionMissing indicates an entry without a description.
	ErrDescriptionMissing = fmt.Errorf("%w: journal entry requires a description", apperrors.ErrValidation)
	// ErrVoidReasonRequired indicates a void request without a reason.
	ErrVoidReasonRequired = fmt.Errorf("%w: voiding requires a reason", apperrors.ErrValidation)

	// ErrAlreadyPosted indicates a posting attempt on an already posted entry.
	ErrAlreadyPosted = fmt.Errorf("%w: entry is already posted", apperrors.ErrConflict)
	// ErrEntryVoided indicates an operation on a voided entry.
	ErrEntryVoided = fmt.Errorf("%w: entry is voided", apperrors.ErrConflict)
	// ErrNotPosted indicates a void attempt on an entry that is not posted.
	ErrNotPosted = fmt.Errorf("%w: only posted entries can be voided", apperrors.ErrConflict)
)

// ledgerService implements the journal and ledger operations. Posting and
// voiding run inside a single transaction under a global posting lock, which
// makes the hash chain append and the balance updates atomic and strictly
// ordered.
type ledgerService struct {
	entryRepo   portsrepo.EntryRepositoryWithTx
	balanceRepo portsrepo.BalanceRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	hasher      *hashchain.Hasher
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(
	entryRepo portsrepo.EntryRepositoryWithTx,
	balanceRepo portsrepo.BalanceRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	hasher *hashchain.Hasher,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		entryRepo:   entryRepo,
		balanceRepo: balanceRepo,
		accountSvc:  accountSvc,
		hasher:      hasher,
	}
}

// validateEntryCore runs the pure checks that do not require I/O: line count,
// line integrity and the double-entry equation.
func validateEntryCore(entry domain.JournalEntry) error {
	if strings.TrimSpace(entry.Description) == "" {
		return ErrDescriptionMissing
	}
	if len(entry.Lines) < 2 {
		return ErrInsufficientLines
	}
	if err := accounting.ValidateLineIntegrity(entry.Lines); err != nil {
		return err
	}
	return accounting.ValidateDoubleEntry(entry.Lines)
}

// validateEntryAccounts checks that every referenced account exists and is
// active.
func (s *ledgerService) validateEntryAccounts(ctx context.Context, lines []domain.JournalLine) error {
	ids := accounting.UniqueAccountIDs(lines)
	active, err := s.accountSvc.FindActiveByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := active[id]; !ok {
			return &apperrors.InvalidAccountError{AccountID: id}
		}
	}
	return nil
}

func (s *ledgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entryDate := now
	if req.Date != nil {
		entryDate = req.Date.UTC()
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	entryID := uuid.NewString()
	for i, l := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}

	entry := domain.JournalEntry{
		EntryID:     entryID,
		EntryDate:   entryDate,
		Description: req.Description,
		Lines:       lines,
		Reference:   req.Reference,
		Tags:        req.Tags,
		Status:      domain.Draft,
	}
	entry.CreatedAt = now
	entry.CreatedBy = creatorUserID
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = creatorUserID

	if err := validateEntryCore(entry); err != nil {
		return nil, err
	}
	if err := s.validateEntryAccounts(ctx, entry.Lines); err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveEntry(ctx, &entry); err != nil {
		logger.Error("failed to save journal entry", "error", err)
		return nil, err
	}

	logger.Info("created journal entry", "entry_id", entry.EntryID, "entry_number", entry.EntryNumber)
	return &entry, nil
}

func (s *ledgerService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	if err := s.entryRepo.AcquirePostingLock(ctx, tx); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	switch entry.Status {
	case domain.Posted:
		return nil, ErrAlreadyPosted
	case domain.Voided:
		return nil, ErrEntryVoided
	}

	// Revalidate at the posting boundary: the draft may have been created
	// before an account was deactivated.
	if err := validateEntryCore(*entry); err != nil {
		return nil, err
	}
	if err := s.validateEntryAccounts(ctx, entry.Lines); err != nil {
		return nil, err
	}

	prevHash, err := s.entryRepo.FindChainTip(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedBy = userID
	entry.PostedAt = &now
	entry.PrevHash = prevHash
	entry.Hash = s.hasher.EntryHash(*entry)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.MarkEntryPosted(ctx, tx, *entry); err != nil {
		return nil, err
	}
	if err := s.balanceRepo.ApplyLinesInTx(ctx, tx, entry.Lines, now); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("posted journal entry",
		"entry_id", entry.EntryID,
		"entry_number", entry.EntryNumber,
		"hash", entry.Hash,
	)
	return entry, nil
}

func (s *ledgerService) VoidEntry(ctx context.Context, entryID string, userID string, reason string) (*domain.VoidResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrVoidReasonRequired
	}

	tx, err := s.entryRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = s.entryRepo.Rollback(ctx, tx) }()

	if err := s.entryRepo.AcquirePostingLock(ctx, tx); err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByIDForUpdate(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	switch entry.Status {
	case domain.Voided:
		return nil, ErrEntryVoided
	case domain.Draft:
		return nil, ErrNotPosted
	}

	now := time.Now().UTC()
	if err := s.entryRepo.MarkEntryVoided(ctx, tx, entry.EntryID, userID, now); err != nil {
		return nil, err
	}
	entry.Status = domain.Voided
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	reversingID := uuid.NewString()
	reversingLines := accounting.ReverseLines(entry.Lines)
	for i := range reversingLines {
		reversingLines[i].LineID = uuid.NewString()
		reversingLines[i].EntryID = reversingID
	}

	reversing := domain.JournalEntry{
		EntryID:     reversingID,
		EntryDate:   now,
		Description: fmt.Sprintf("VOID: %s (Reason: %s)", entry.Description, reason),
		Lines:       reversingLines,
		Reference:   "VOID-" + entry.EntryNumber,
		Status:      domain.Draft,
	}
	reversing.CreatedAt = now
	reversing.CreatedBy = userID
	reversing.LastUpdatedAt = now
	reversing.LastUpdatedBy = userID

	// The reversal is mechanical so it balances whenever the original did,
	// but the invariants hold for every persisted entry without exception.
	if err := validateEntryCore(reversing); err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveEntryInTx(ctx, tx, &reversing); err != nil {
		return nil, err
	}

	prevHash, err := s.entryRepo.FindChainTip(ctx, tx)
	if err != nil {
		return nil, err
	}

	reversing.Status = domain.Posted
	reversing.PostedBy = userID
	reversing.PostedAt = &now
	reversing.PrevHash = prevHash
	reversing.Hash = s.hasher.EntryHash(reversing)

	if err := s.entryRepo.MarkEntryPosted(ctx, tx, reversing); err != nil {
		return nil, err
	}
	if err := s.balanceRepo.ApplyLinesInTx(ctx, tx, reversing.Lines, now); err != nil {
		return nil, err
	}

	if err := s.entryRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	logger.Info("voided journal entry",
		"entry_id", entry.EntryID,
		"entry_number", entry.EntryNumber,
		"reversing_entry_number", reversing.EntryNumber,
	)
	return &domain.VoidResult{VoidedEntry: entry, ReversingEntry: &reversing}, nil
}

func (s *ledgerService) GetEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return s.entryRepo.FindEntryByID(ctx, entryID)
}

func (s *ledgerService) ListEntries(ctx context.Context, filter domain.EntryFilter, page, limit int, sortBy, sortOrder string) ([]domain.JournalEntry, pagination.Meta, error) {
	page, limit = pagination.Normalize(page, limit)
	entries, total, err := s.entryRepo.ListEntries(ctx, filter, page, limit, sortBy, sortOrder)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return entries, pagination.NewMeta(page, limit, total), nil
}

func (s *ledgerService) GetBalances(ctx context.Context, filter domain.BalanceFilter) ([]domain.AccountBalanceDetail, error) {
	return s.balanceRepo.ListBalances(ctx, filter)
}

func (s *ledgerService) GetSummary(ctx context.Context) (*domain.LedgerSummary, error) {
	balances, err := s.balanceRepo.ListBalances(ctx, domain.BalanceFilter{})
	if err != nil {
		return nil, err
	}

	summary := domain.LedgerSummary{
		AssetsTotal:       decimal.Zero,
		LiabilitiesTotal:  decimal.Zero,
		EquityTotal:       decimal.Zero,
		IncomeTotal:       decimal.Zero,
		ExpensesTotal:     decimal.Zero,
		NetIncome:         decimal.Zero,
		BalanceDifference: decimal.Zero,
	}

	// Stored balances are raw debit-minus-credit. Credit-normal types are
	// negated here so every total reads positive under normal activity.
	for _, b := range balances {
		switch b.AccountType {
		case domain.Asset:
			summary.AssetsTotal = summary.AssetsTotal.Add(b.Balance)
		case domain.Liability:
			summary.LiabilitiesTotal = summary.LiabilitiesTotal.Sub(b.Balance)
		case domain.Equity:
			summary.EquityTotal = summary.EquityTotal.Sub(b.Balance)
		case domain.Income:
			summary.IncomeTotal = summary.IncomeTotal.Sub(b.Balance)
		case domain.Expense:
			summary.ExpensesTotal = summary.ExpensesTotal.Add(b.Balance)
		}
	}

	summary.NetIncome = summary.IncomeTotal.Sub(summary.ExpensesTotal)
	rhs := summary.LiabilitiesTotal.Add(summary.EquityTotal).Add(summary.NetIncome)
	summary.BalanceDifference = summary.AssetsTotal.Sub(rhs)
	summary.IsBalanced = summary.BalanceDifference.IsZero()

	return &summary, nil
}

func (s *ledgerService) VerifyChain(ctx context.Context) (*domain.ChainReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, err := s.entryRepo.FindPostedEntries(ctx)
	if err != nil {
		return nil, err
	}

	report := domain.ChainReport{
		IsValid:      true,
		TotalEntries: len(entries),
		Errors:       []domain.ChainError{},
	}

	expectedPrev := hashchain.GenesisHash
	for _, entry := range entries {
		if entry.PrevHash != expectedPrev {
			report.Errors = append(report.Errors, domain.ChainError{
				EntryNumber: entry.EntryNumber,
				Problem:     domain.ChainBroken,
				Expected:    expectedPrev,
				Actual:      entry.PrevHash,
			})
		}
		recomputed := s.hasher.EntryHash(entry)
		if recomputed != entry.Hash {
			report.Errors = append(report.Errors, domain.ChainError{
				EntryNumber: entry.EntryNumber,
				Problem:     domain.HashMismatch,
				Expected:    recomputed,
				Actual:      entry.Hash,
			})
		}
		// Verification continues from the stored hash so one tampered entry
		// surfaces as a single mismatch rather than cascading to the end.
		expectedPrev = entry.Hash
	}

	if len(report.Errors) > 0 {
		report.IsValid = false
		logger.Warn("hash chain verification failed", "error_count", len(report.Errors))
	}

	return &report, nil
}
