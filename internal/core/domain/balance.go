package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the running balance for one account, derived exclusively
// from posted journal lines. Balance is the raw net (debit total minus
// credit total) regardless of the account's normal balance side; sign
// interpretation happens at read time.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	DebitTotal  decimal.Decimal `json:"debitTotal"`
	CreditTotal decimal.Decimal `json:"creditTotal"`
	Balance     decimal.Decimal `json:"balance"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// AccountBalanceDetail joins a balance with its account's identity for
// reporting consumers.
type AccountBalanceDetail struct {
	AccountBalance
	AccountCode   string        `json:"accountCode"`
	AccountName   string        `json:"accountName"`
	AccountType   AccountType   `json:"accountType"`
	NormalBalance NormalBalance `json:"normalBalance"`
}

// BalanceFilter narrows balance listings.
type BalanceFilter struct {
	AccountType AccountType
	MinBalance  *decimal.Decimal
	MaxBalance  *decimal.Decimal
	SearchText  string // matched against account name and code
}

// LedgerSummary aggregates balances by account type with the conventional
// sign applied per type, and checks the accounting equation
// assets = liabilities + equity + net income.
type LedgerSummary struct {
	AssetsTotal       decimal.Decimal `json:"assetsTotal"`
	LiabilitiesTotal  decimal.Decimal `json:"liabilitiesTotal"`
	EquityTotal       decimal.Decimal `json:"equityTotal"`
	IncomeTotal       decimal.Decimal `json:"incomeTotal"`
	ExpensesTotal     decimal.Decimal `json:"expensesTotal"`
	NetIncome         decimal.Decimal `json:"netIncome"`
	IsBalanced        bool            `json:"isBalanced"`
	BalanceDifference decimal.Decimal `json:"balanceDifference"`
}
