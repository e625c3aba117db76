package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
	"github.com/ledgerkeep/ledgerkeep/internal/utils/pagination"
)

// EntryLineRequest is one line of a journal entry creation request. Either
// debit or credit must be set, never both; the service enforces this beyond
// what binding tags can express.
type EntryLineRequest struct {
	AccountID   string          `json:"accountId" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest is the request body for creating a draft journal entry.
type CreateEntryRequest struct {
	Date        *time.Time         `json:"date"`
	Description string             `json:"description" binding:"required"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
	Reference   string             `json:"reference"`
	Tags        []string           `json:"tags"`
}

// VoidEntryRequest is the request body for voiding a posted entry.
type VoidEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListEntriesRequest carries the query parameters for listing entries.
type ListEntriesRequest struct {
	Status    string `form:"status"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
	AccountID string `form:"accountId"`
	Search    string `form:"search"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// ListBalancesRequest carries the query parameters for listing balances.
// Amount bounds arrive as strings and are parsed with exact decimal
// semantics in the handler.
type ListBalancesRequest struct {
	AccountType string `form:"accountType"`
	MinBalance  string `form:"minBalance"`
	MaxBalance  string `form:"maxBalance"`
	Search      string `form:"search"`
}

// EntryLineResponse is one journal line in API responses.
type EntryLineResponse struct {
	LineID      string          `json:"lineId"`
	AccountID   string          `json:"accountId"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID     string              `json:"entryId"`
	EntryNumber string              `json:"entryNumber"`
	Date        time.Time           `json:"date"`
	Description string              `json:"description"`
	Lines       []EntryLineResponse `json:"lines"`
	Reference   string              `json:"reference,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Status      string              `json:"status"`
	PostedBy    string              `json:"postedBy,omitempty"`
	PostedAt    *time.Time          `json:"postedAt,omitempty"`
	PrevHash    string              `json:"prevHash,omitempty"`
	Hash        string              `json:"hash,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy,omitempty"`
}

// ListEntriesResponse is a page of entries with pagination metadata.
type ListEntriesResponse struct {
	Entries    []EntryResponse `json:"entries"`
	Pagination pagination.Meta `json:"pagination"`
}

// VoidEntryResponse pairs the voided entry with its reversing entry.
type VoidEntryResponse struct {
	VoidedEntry    EntryResponse `json:"voidedEntry"`
	ReversingEntry EntryResponse `json:"reversingEntry"`
}

// BalanceResponse is one account's running balance with account details.
type BalanceResponse struct {
	AccountID     string          `json:"accountId"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   string          `json:"accountType"`
	NormalBalance string          `json:"normalBalance"`
	DebitTotal    decimal.Decimal `json:"debitTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	Balance       decimal.Decimal `json:"balance"`
	LastUpdated   *time.Time      `json:"lastUpdated,omitempty"`
}

// SummaryResponse is the trial-balance style aggregate of all balances.
type SummaryResponse struct {
	AssetsTotal       decimal.Decimal `json:"assetsTotal"`
	LiabilitiesTotal  decimal.Decimal `json:"liabilitiesTotal"`
	EquityTotal       decimal.Decimal `json:"equityTotal"`
	IncomeTotal       decimal.Decimal `json:"incomeTotal"`
	ExpensesTotal     decimal.Decimal `json:"expensesTotal"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	IsBalanced        bool            `json:"isBalanced"`
	BalanceDifference decimal.Decimal `json:"balanceDifference"`
}

// ChainErrorResponse is one problem found during chain verification.
type ChainErrorResponse struct {
	EntryNumber string `json:"entryNumber"`
	Problem     string `json:"problem"`
	Expected    string `json:"expected"`
	Actual      string `json:"actual"`
}

// VerifyChainResponse is the result of a full chain verification pass.
type VerifyChainResponse struct {
	IsValid      bool                 `json:"isValid"`
	TotalEntries int                  `json:"totalEntries"`
	Errors       []ChainErrorResponse `json:"errors"`
}

// ToEntryResponse maps a domain entry to its API representation.
func ToEntryResponse(entry domain.JournalEntry) EntryResponse {
	lines := make([]EntryLineResponse, len(entry.Lines))
	for i, line := range entry.Lines {
		lines[i] = EntryLineResponse{
			LineID:      line.LineID,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		}
	}
	return EntryResponse{
		EntryID:     entry.EntryID,
		EntryNumber: entry.EntryNumber,
		Date:        entry.EntryDate,
		Description: entry.Description,
		Lines:       lines,
		Reference:   entry.Reference,
		Tags:        entry.Tags,
		Status:      string(entry.Status),
		PostedBy:    entry.PostedBy,
		PostedAt:    entry.PostedAt,
		PrevHash:    entry.PrevHash,
		Hash:        entry.Hash,
		CreatedAt:   entry.CreatedAt,
		CreatedBy:   entry.CreatedBy,
	}
}

// ToListEntriesResponse maps a page of domain entries to the API shape.
func ToListEntriesResponse(entries []domain.JournalEntry, meta pagination.Meta) ListEntriesResponse {
	out := make([]EntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = ToEntryResponse(entry)
	}
	return ListEntriesResponse{Entries: out, Pagination: meta}
}

// ToVoidEntryResponse maps a void result to the API shape.
func ToVoidEntryResponse(result domain.VoidResult) VoidEntryResponse {
	return VoidEntryResponse{
		VoidedEntry:    ToEntryResponse(*result.VoidedEntry),
		ReversingEntry: ToEntryResponse(*result.ReversingEntry),
	}
}

// ToBalanceResponse maps a balance detail row to the API shape.
func ToBalanceResponse(detail domain.AccountBalanceDetail) BalanceResponse {
	resp := BalanceResponse{
		AccountID:     detail.AccountID,
		AccountCode:   detail.AccountCode,
		AccountName:   detail.AccountName,
		AccountType:   string(detail.AccountType),
		NormalBalance: string(detail.NormalBalance),
		DebitTotal:    detail.DebitTotal,
		CreditTotal:   detail.CreditTotal,
		Balance:       detail.Balance,
	}
	if !detail.LastUpdated.IsZero() {
		t := detail.LastUpdated
		resp.LastUpdated = &t
	}
	return resp
}

// ToSummaryResponse maps the ledger summary to the API shape.
func ToSummaryResponse(summary domain.LedgerSummary) SummaryResponse {
	return SummaryResponse{
		AssetsTotal:       summary.AssetsTotal,
		LiabilitiesTotal:  summary.LiabilitiesTotal,
		EquityTotal:       summary.EquityTotal,
		IncomeTotal:       summary.IncomeTotal,
		ExpensesTotal:     summary.ExpensesTotal,
		NetIncome:         summary.NetIncome,
		IsBalanced:        summary.IsBalanced,
		BalanceDifference: summary.BalanceDifference,
	}
}

// ToVerifyChainResponse maps a chain report to the API shape.
func ToVerifyChainResponse(report domain.ChainReport) VerifyChainResponse {
	errs := make([]ChainErrorResponse, len(report.Errors))
	for i, e := range report.Errors {
		errs[i] = ChainErrorResponse{
			EntryNumber: e.EntryNumber,
			Problem:     string(e.Problem),
			Expected:    e.Expected,
			Actual:      e.Actual,
		}
	}
	return VerifyChainResponse{
		IsValid:      report.IsValid,
		TotalEntries: report.TotalEntries,
		Errors:       errs,
	}
}
