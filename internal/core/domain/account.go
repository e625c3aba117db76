package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether the account type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Income, Expense:
		return true
	}
	return false
}

// NormalBalance indicates which side naturally increases an account.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// NormalBalanceFor returns the conventional normal balance side for an
// account type: assets and expenses increase on the debit side, everything
// else on the credit side.
func NormalBalanceFor(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Account represents one entry in the chart of accounts. Accounts referenced
// by a posted journal line must remain resolvable, so they are deactivated
// rather than deleted.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary Key (UUID)
	Code        string      `json:"code"`      // Unique, user-facing code
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	// NormalBalance is derived from AccountType at creation and stored for
	// reporting consumers; the posting engine itself never consults it.
	NormalBalance NormalBalance `json:"normalBalance"`
	Description   string        `json:"description"`
	IsActive      bool          `json:"isActive"`
	AuditFields
}
