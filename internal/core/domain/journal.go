package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	Draft  EntryStatus = "DRAFT"
	Posted EntryStatus = "POSTED"
	Voided EntryStatus = "VOIDED"
)

// JournalLine is a single debit or credit against one account within a
// journal entry. Exactly one of Debit/Credit is strictly positive; the other
// is exactly zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// JournalEntry represents a single, balanced financial event composed of two
// or more lines. Once posted it becomes part of the tamper-evident hash
// chain and is never edited; voiding marks it VOIDED and appends a reversing
// entry instead.
type JournalEntry struct {
	EntryID     string        `json:"entryID"`     // Primary Key (UUID)
	EntryNumber string        `json:"entryNumber"` // JE-YYYYMMDD-NNNN, unique
	EntryDate   time.Time     `json:"date"`
	Description string        `json:"description"`
	Lines       []JournalLine `json:"lines"`
	Reference   string        `json:"reference"` // External reference: invoice number, etc.
	Tags        []string      `json:"tags"`
	Status      EntryStatus   `json:"status"`

	// Posting metadata, set only on the DRAFT -> POSTED transition.
	PostedBy   string     `json:"postedBy,omitempty"`
	PostedAt   *time.Time `json:"postedAt,omitempty"`
	PostingSeq int64      `json:"-"` // Chain position, assigned at posting; 0 for drafts

	// Audit chain fields. PrevHash is the hash of the entry posted
	// immediately before this one ("0" for the first), Hash is the keyed
	// hash over this entry's canonical content. Both are empty until posted.
	PrevHash string `json:"prevHash,omitempty"`
	Hash     string `json:"hash,omitempty"`

	AuditFields
}

// EntryFilter narrows journal entry listings.
type EntryFilter struct {
	Status     EntryStatus
	DateFrom   *time.Time
	DateTo     *time.Time
	AccountID  string // entries with at least one line touching this account
	SearchText string // matched against entry number, description, reference
}

// VoidResult pairs a voided entry with the reversing entry that offsets it.
type VoidResult struct {
	VoidedEntry    *JournalEntry `json:"voidedEntry"`
	ReversingEntry *JournalEntry `json:"reversingEntry"`
}
