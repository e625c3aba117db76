package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerkeep/ledgerkeep/internal/apperrors"
	"github.com/ledgerkeep/ledgerkeep/internal/core/domain"
)

// ValidateLineIntegrity checks that every line has exactly one positive side
// and no negative amounts. These are pure computations over the line list;
// account resolution is a separate, I/O-bound check.
func ValidateLineIntegrity(lines []domain.JournalLine) error {
	for i, line := range lines {
		switch {
		case line.Debit.IsNegative() || line.Credit.IsNegative():
			return &apperrors.LineIntegrityError{Line: i + 1, Reason: "amounts cannot be negative"}
		case !line.Debit.IsZero() && !line.Credit.IsZero():
			return &apperrors.LineIntegrityError{Line: i + 1, Reason: "cannot have both debit and credit"}
		case line.Debit.IsZero() && line.Credit.IsZero():
			return &apperrors.LineIntegrityError{Line: i + 1, Reason: "must have either debit or credit"}
		}
	}
	return nil
}

// ValidateDoubleEntry sums all debits and credits with exact decimal
// arithmetic and requires strict equality, no rounding tolerance.
func ValidateDoubleEntry(lines []domain.JournalLine) error {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, line := range lines {
		totalDebits = totalDebits.Add(line.Debit)
		totalCredits = totalCredits.Add(line.Credit)
	}
	if !totalDebits.Equal(totalCredits) {
		return &apperrors.UnbalancedEntryError{Debits: totalDebits, Credits: totalCredits}
	}
	return nil
}

// ReverseLines produces the mechanical reversal of a set of lines: debit and
// credit swapped per line, descriptions prefixed to reference the void.
func ReverseLines(lines []domain.JournalLine) []domain.JournalLine {
	reversed := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		reversed[i] = domain.JournalLine{
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: "VOID: " + line.Description,
		}
	}
	return reversed
}

// UniqueAccountIDs returns the distinct account references of the lines, in
// first-seen order.
func UniqueAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			ids = append(ids, line.AccountID)
		}
	}
	return ids
}
