package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	portsrepo "github.com/ledgerkeep/ledgerkeep/internal/core/ports/repositories"
	portssvc "github.com/ledgerkeep/ledgerkeep/internal/core/ports/services"
	"github.com/ledgerkeep/ledgerkeep/internal/core/services"
	"github.com/ledgerkeep/ledgerkeep/internal/dto"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/hashchain"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

// --- Mock EntryRepository ---
type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryWithTx = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry *domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) AcquirePostingLock(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindChainTip(ctx context.Context, tx pgx.Tx) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *MockEntryRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) MarkEntryVoided(ctx context.Context, tx pgx.Tx, entryID string, userID string, now time.Time) error {
	args := m.Called(ctx, tx, entryID, userID, now)
	return args.Error(0)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, page, limit int, sortBy, sortOrder string) ([]domain.JournalEntry, int, error) {
	args := m.Called(ctx, filter, page, limit, sortBy, sortOrder)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.JournalEntry), args.Int(1), args.Error(2)
}

func (m *MockEntryRepository) FindPostedEntries(ctx context.Context) ([]domain.JournalEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

// --- Mock BalanceRepository ---
type MockBalanceRepository struct {
	mock.Mock
}

var _ portsrepo.BalanceRepositoryFacade = (*MockBalanceRepository)(nil)

func (m *MockBalanceRepository) ListBalances(ctx context.Context, filter domain.BalanceFilter) ([]domain.AccountBalanceDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalanceDetail), args.Error(1)
}

func (m *MockBalanceRepository) FindBalanceByAccountID(ctx context.Context, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceRepository) ApplyLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine, now time.Time) error {
	args := m.Called(ctx, tx, lines, now)
	return args.Error(0)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) FindActiveByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, page, limit int) ([]domain.Account, pagination.Meta, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, pagination.Meta{}, args.Error(2)
	}
	return args.Get(0).([]domain.Account), args.Get(1).(pagination.Meta), args.Error(2)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockEntryRepo   *MockEntryRepository
	mockBalanceRepo *MockBalanceRepository
	mockAccountSvc  *MockAccountService
	hasher          *hashchain.Hasher
	service         portssvc.LedgerSvcFacade

	userID          string
	cashAccount     domain.Account
	revenueAccount  domain.Account
	inactiveAccount domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockEntryRepo = new(MockEntryRepository)
	suite.mockBalanceRepo = new(MockBalanceRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.hasher = hashchain.New("test-secret")
	suite.service = services.NewLedgerService(suite.mockEntryRepo, suite.mockBalanceRepo, suite.mockAccountSvc, suite.hasher)

	suite.userID = uuid.NewString()
	suite.cashAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Asset,
		IsActive:    true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "4000",
		Name:        "Revenue",
		AccountType: domain.Income,
		IsActive:    true,
	}
	suite.inactiveAccount = domain.Account{
		AccountID:   uuid.NewString(),
		Code:        "1090",
		Name:        "Old Cash",
		AccountType: domain.Asset,
		IsActive:    false,
	}
}

func (suite *LedgerServiceTestSuite) activeAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
}

func (suite *LedgerServiceTestSuite) balancedRequest() dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		Description: "Cash sale",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *LedgerServiceTestSuite) draftEntry() *domain.JournalEntry {
	entryID := uuid.NewString()
	now := time.Now().UTC()
	entry := &domain.JournalEntry{
		EntryID:     entryID,
		EntryNumber: "JE-20260115-0001",
		EntryDate:   now,
		Description: "Cash sale",
		Lines: []domain.JournalLine{
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			{LineID: uuid.NewString(), EntryID: entryID, AccountID: suite.revenueAccount.AccountID, Debit: decimal.Zero, Credit: decimal.NewFromInt(100)},
		},
		Status: domain.Draft,
	}
	entry.CreatedAt = now
	entry.CreatedBy = suite.userID
	return entry
}

func (suite *LedgerServiceTestSuite) postedEntry() *domain.JournalEntry {
	entry := suite.draftEntry()
	now := time.Now().UTC()
	entry.Status = domain.Posted
	entry.PostedBy = suite.userID
	entry.PostedAt = &now
	entry.PrevHash = hashchain.GenesisHash
	entry.Hash = suite.hasher.EntryHash(*entry)
	return entry
}

// --- CreateEntry ---

func (suite *LedgerServiceTestSuite) TestCreateEntrySuccess() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("FindActiveByIDs", ctx, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()
	suite.mockEntryRepo.On("SaveEntry", ctx, mock.AnythingOfType("*domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal(suite.userID, entry.CreatedBy)
	suite.Empty(entry.PrevHash)
	suite.Empty(entry.Hash)
	suite.Len(entry.Lines, 2)
	suite.NotEmpty(entry.Lines[0].LineID)
	suite.Equal(entry.EntryID, entry.Lines[0].EntryID)
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsSingleLine() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = req.Lines[:1]

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, services.ErrInsufficientLines)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsMissingDescription() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Description = "   "

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, services.ErrDescriptionMissing)
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsUnbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(99)

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	var unbalanced *apperrors.UnbalancedEntryError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.Debits.Equal(decimal.NewFromInt(100)))
	suite.True(unbalanced.Credits.Equal(decimal.NewFromInt(99)))
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsExactDecimalMismatch() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Debit = decimal.RequireFromString("100.001")
	req.Lines[1].Credit = decimal.RequireFromString("100.00")

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsBothSidesSet() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Credit = decimal.NewFromInt(100)
	req.Lines[1].Debit = decimal.NewFromInt(100)

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	var lineErr *apperrors.LineIntegrityError
	suite.Require().ErrorAs(err, &lineErr)
	suite.Equal(1, lineErr.Line)
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsNegativeAmount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].Debit = decimal.NewFromInt(-100)

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsZeroLine() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines = append(req.Lines, dto.EntryLineRequest{AccountID: suite.cashAccount.AccountID})

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	var lineErr *apperrors.LineIntegrityError
	suite.Require().ErrorAs(err, &lineErr)
	suite.Equal(3, lineErr.Line)
}

func (suite *LedgerServiceTestSuite) TestCreateEntryRejectsInactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[0].AccountID = suite.inactiveAccount.AccountID

	// Inactive accounts are simply absent from the active lookup result.
	suite.mockAccountSvc.On("FindActiveByIDs", ctx, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}, nil).Once()

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	var accountErr *apperrors.InvalidAccountError
	suite.Require().ErrorAs(err, &accountErr)
	suite.Equal(suite.inactiveAccount.AccountID, accountErr.AccountID)
}

// --- PostEntry ---

func (suite *LedgerServiceTestSuite) expectPostingTx() {
	suite.mockEntryRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockEntryRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockEntryRepo.On("AcquirePostingLock", mock.Anything, mock.Anything).Return(nil).Once()
}

func (suite *LedgerServiceTestSuite) TestPostEntrySuccess() {
	ctx := context.Background()
	draft := suite.draftEntry()

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, draft.EntryID).Return(draft, nil).Once()
	suite.mockAccountSvc.On("FindActiveByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()
	suite.mockEntryRepo.On("FindChainTip", mock.Anything, mock.Anything).Return(hashchain.GenesisHash, nil).Once()
	suite.mockEntryRepo.On("MarkEntryPosted", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	suite.mockBalanceRepo.On("ApplyLinesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockEntryRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, draft.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(suite.userID, posted.PostedBy)
	suite.Require().NotNil(posted.PostedAt)
	suite.Equal(hashchain.GenesisHash, posted.PrevHash)
	suite.Equal(suite.hasher.EntryHash(*posted), posted.Hash)
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostEntryChainsOntoPreviousHash() {
	ctx := context.Background()
	draft := suite.draftEntry()
	tipHash := "abc123"

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, draft.EntryID).Return(draft, nil).Once()
	suite.mockAccountSvc.On("FindActiveByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(suite.activeAccounts(), nil).Once()
	suite.mockEntryRepo.On("FindChainTip", mock.Anything, mock.Anything).Return(tipHash, nil).Once()
	suite.mockEntryRepo.On("MarkEntryPosted", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	suite.mockBalanceRepo.On("ApplyLinesInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockEntryRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, draft.EntryID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(tipHash, posted.PrevHash)
}

func (suite *LedgerServiceTestSuite) TestPostEntryAlreadyPosted() {
	ctx := context.Background()
	posted := suite.postedEntry()

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, posted.EntryID).Return(posted, nil).Once()

	_, err := suite.service.PostEntry(ctx, posted.EntryID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrAlreadyPosted)
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostEntryVoided() {
	ctx := context.Background()
	entry := suite.draftEntry()
	entry.Status = domain.Voided

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, entry.EntryID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrEntryVoided)
}

func (suite *LedgerServiceTestSuite) TestPostEntryNotFound() {
	ctx := context.Background()
	entryID := uuid.NewString()

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, entryID).Return(nil, apperrors.NewNotFoundError("journal entry not found")).Once()

	_, err := suite.service.PostEntry(ctx, entryID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestPostEntryRejectsDeactivatedAccountAtPosting() {
	ctx := context.Background()
	draft := suite.draftEntry()

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, draft.EntryID).Return(draft, nil).Once()
	suite.mockAccountSvc.On("FindActiveByIDs", mock.Anything, mock.AnythingOfType("[]string")).Return(map[string]domain.Account{
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}, nil).Once()

	_, err := suite.service.PostEntry(ctx, draft.EntryID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "MarkEntryPosted", mock.Anything, mock.Anything, mock.Anything)
}

// --- VoidEntry ---

func (suite *LedgerServiceTestSuite) TestVoidEntrySuccess() {
	ctx := context.Background()
	posted := suite.postedEntry()

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, posted.EntryID).Return(posted, nil).Once()
	suite.mockEntryRepo.On("MarkEntryVoided", mock.Anything, mock.Anything, posted.EntryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockEntryRepo.On("SaveEntryInTx", mock.Anything, mock.Anything, mock.AnythingOfType("*domain.JournalEntry")).Run(func(args mock.Arguments) {
		entry := args.Get(2).(*domain.JournalEntry)
		entry.EntryNumber = "JE-20260116-0001"
	}).Return(nil).Once()
	suite.mockEntryRepo.On("FindChainTip", mock.Anything, mock.Anything).Return(posted.Hash, nil).Once()
	suite.mockEntryRepo.On("MarkEntryPosted", mock.Anything, mock.Anything, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()
	suite.mockBalanceRepo.On("ApplyLinesInTx", mock.Anything, mock.Anything, mock.AnythingOfType("[]domain.JournalLine"), mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockEntryRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.service.VoidEntry(ctx, posted.EntryID, suite.userID, "duplicate entry")

	suite.Require().NoError(err)
	suite.Equal(domain.Voided, result.VoidedEntry.Status)

	reversing := result.ReversingEntry
	suite.Equal(domain.Posted, reversing.Status)
	suite.Equal("VOID-"+posted.EntryNumber, reversing.Reference)
	suite.Contains(reversing.Description, "VOID: ")
	suite.Contains(reversing.Description, "duplicate entry")
	suite.Equal(posted.Hash, reversing.PrevHash)
	suite.Require().Len(reversing.Lines, 2)
	// Debit and credit swap per line.
	suite.True(reversing.Lines[0].Credit.Equal(posted.Lines[0].Debit))
	suite.True(reversing.Lines[0].Debit.Equal(posted.Lines[0].Credit))
	suite.True(reversing.Lines[1].Debit.Equal(posted.Lines[1].Credit))
	suite.mockEntryRepo.AssertExpectations(suite.T())
	suite.mockBalanceRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestVoidEntryRequiresReason() {
	ctx := context.Background()

	_, err := suite.service.VoidEntry(ctx, uuid.NewString(), suite.userID, "   ")

	suite.Require().ErrorIs(err, services.ErrVoidReasonRequired)
	suite.mockEntryRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestVoidEntryRejectsDraft() {
	ctx := context.Background()
	draft := suite.draftEntry()

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, draft.EntryID).Return(draft, nil).Once()

	_, err := suite.service.VoidEntry(ctx, draft.EntryID, suite.userID, "mistake")

	suite.Require().ErrorIs(err, services.ErrNotPosted)
}

func (suite *LedgerServiceTestSuite) TestVoidEntryRejectsAlreadyVoided() {
	ctx := context.Background()
	entry := suite.postedEntry()
	entry.Status = domain.Voided

	suite.expectPostingTx()
	suite.mockEntryRepo.On("FindEntryByIDForUpdate", mock.Anything, mock.Anything, entry.EntryID).Return(entry, nil).Once()

	_, err := suite.service.VoidEntry(ctx, entry.EntryID, suite.userID, "mistake")

	suite.Require().ErrorIs(err, services.ErrEntryVoided)
}

// --- VerifyChain ---

func (suite *LedgerServiceTestSuite) chainOf(n int) []domain.JournalEntry {
	entries := make([]domain.JournalEntry, 0, n)
	prev := hashchain.GenesisHash
	for i := 0; i < n; i++ {
		entry := *suite.draftEntry()
		entry.EntryNumber = entry.EntryNumber[:len(entry.EntryNumber)-1] + string(rune('1'+i))
		entry.Status = domain.Posted
		entry.PostingSeq = int64(i + 1)
		entry.PrevHash = prev
		entry.Hash = suite.hasher.EntryHash(entry)
		prev = entry.Hash
		entries = append(entries, entry)
	}
	return entries
}

func (suite *LedgerServiceTestSuite) TestVerifyChainValid() {
	ctx := context.Background()
	entries := suite.chainOf(3)

	suite.mockEntryRepo.On("FindPostedEntries", ctx).Return(entries, nil).Once()

	report, err := suite.service.VerifyChain(ctx)

	suite.Require().NoError(err)
	suite.True(report.IsValid)
	suite.Equal(3, report.TotalEntries)
	suite.Empty(report.Errors)
}

func (suite *LedgerServiceTestSuite) TestVerifyChainEmpty() {
	ctx := context.Background()

	suite.mockEntryRepo.On("FindPostedEntries", ctx).Return([]domain.JournalEntry{}, nil).Once()

	report, err := suite.service.VerifyChain(ctx)

	suite.Require().NoError(err)
	suite.True(report.IsValid)
	suite.Equal(0, report.TotalEntries)
}

func (suite *LedgerServiceTestSuite) TestVerifyChainDetectsTamperedContent() {
	ctx := context.Background()
	entries := suite.chainOf(3)
	entries[1].Description = "altered after posting"

	suite.mockEntryRepo.On("FindPostedEntries", ctx).Return(entries, nil).Once()

	report, err := suite.service.VerifyChain(ctx)

	suite.Require().NoError(err)
	suite.False(report.IsValid)
	suite.Require().Len(report.Errors, 1)
	suite.Equal(domain.HashMismatch, report.Errors[0].Problem)
	suite.Equal(entries[1].EntryNumber, report.Errors[0].EntryNumber)
}

func (suite *LedgerServiceTestSuite) TestVerifyChainDetectsBrokenLink() {
	ctx := context.Background()
	entries := suite.chainOf(3)
	entries[2].PrevHash = "not-the-previous-hash"
	entries[2].Hash = suite.hasher.EntryHash(entries[2])

	suite.mockEntryRepo.On("FindPostedEntries", ctx).Return(entries, nil).Once()

	report, err := suite.service.VerifyChain(ctx)

	suite.Require().NoError(err)
	suite.False(report.IsValid)
	suite.Require().Len(report.Errors, 1)
	suite.Equal(domain.ChainBroken, report.Errors[0].Problem)
}

// --- GetSummary ---

func (suite *LedgerServiceTestSuite) TestGetSummaryAppliesNaturalSigns() {
	ctx := context.Background()

	// Owner invests 1000 cash: raw balances are +1000 cash, -1000 equity.
	balances := []domain.AccountBalanceDetail{
		{
			AccountBalance: domain.AccountBalance{
				AccountID:   suite.cashAccount.AccountID,
				DebitTotal:  decimal.NewFromInt(1000),
				CreditTotal: decimal.Zero,
				Balance:     decimal.NewFromInt(1000),
			},
			AccountType: domain.Asset,
		},
		{
			AccountBalance: domain.AccountBalance{
				AccountID:   uuid.NewString(),
				DebitTotal:  decimal.Zero,
				CreditTotal: decimal.NewFromInt(1000),
				Balance:     decimal.NewFromInt(-1000),
			},
			AccountType: domain.Equity,
		},
	}
	suite.mockBalanceRepo.On("ListBalances", ctx, domain.BalanceFilter{}).Return(balances, nil).Once()

	summary, err := suite.service.GetSummary(ctx)

	suite.Require().NoError(err)
	suite.True(summary.AssetsTotal.Equal(decimal.NewFromInt(1000)))
	suite.True(summary.EquityTotal.Equal(decimal.NewFromInt(1000)))
	suite.True(summary.NetIncome.IsZero())
	suite.True(summary.IsBalanced)
	suite.True(summary.BalanceDifference.IsZero())
}

func (suite *LedgerServiceTestSuite) TestGetSummaryIncludesNetIncome() {
	ctx := context.Background()

	// 500 revenue earned in cash, 200 paid out as expenses.
	balances := []domain.AccountBalanceDetail{
		{
			AccountBalance: domain.AccountBalance{Balance: decimal.NewFromInt(300)},
			AccountType:    domain.Asset,
		},
		{
			AccountBalance: domain.AccountBalance{Balance: decimal.NewFromInt(-500)},
			AccountType:    domain.Income,
		},
		{
			AccountBalance: domain.AccountBalance{Balance: decimal.NewFromInt(200)},
			AccountType:    domain.Expense,
		},
	}
	suite.mockBalanceRepo.On("ListBalances", ctx, domain.BalanceFilter{}).Return(balances, nil).Once()

	summary, err := suite.service.GetSummary(ctx)

	suite.Require().NoError(err)
	suite.True(summary.IncomeTotal.Equal(decimal.NewFromInt(500)))
	suite.True(summary.ExpensesTotal.Equal(decimal.NewFromInt(200)))
	suite.True(summary.NetIncome.Equal(decimal.NewFromInt(300)))
	suite.True(summary.IsBalanced)
}

// --- ListEntries ---

func (suite *LedgerServiceTestSuite) TestListEntriesNormalizesPagination() {
	ctx := context.Background()
	entries := []domain.JournalEntry{*suite.draftEntry()}

	suite.mockEntryRepo.On("ListEntries", ctx, domain.EntryFilter{}, 1, pagination.DefaultLimit, "", "").Return(entries, 41, nil).Once()

	got, meta, err := suite.service.ListEntries(ctx, domain.EntryFilter{}, 0, 0, "", "")

	suite.Require().NoError(err)
	suite.Len(got, 1)
	suite.Equal(1, meta.Page)
	suite.Equal(pagination.DefaultLimit, meta.Limit)
	suite.Equal(41, meta.Total)
	suite.Equal(3, meta.Pages)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
