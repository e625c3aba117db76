package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates an operation that is invalid for the resource's current state.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation forbidden")

// ErrInternal indicates an unexpected infrastructure failure. Callers can
// distinguish it from domain rejections and retry.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure error with an HTTP-ish status code and a
// message safe to log.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// LineIntegrityError reports a journal line violating the
// debit-xor-credit-nonnegative rule. Line is 1-based for user-facing
// messages.
type LineIntegrityError struct {
	Line   int
	Reason string
}

func (e *LineIntegrityError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

func (e *LineIntegrityError) Unwrap() error { return ErrValidation }

// UnbalancedEntryError reports that total debits do not equal total credits,
// carrying both computed totals.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("entry does not balance: debits (%s) != credits (%s)", e.Debits, e.Credits)
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrValidation }

// InvalidAccountError reports a referenced account that does not exist or is
// inactive.
type InvalidAccountError struct {
	AccountID string
}

func (e *InvalidAccountError) Error() string {
	return fmt.Sprintf("account %s is invalid or inactive", e.AccountID)
}

func (e *InvalidAccountError) Unwrap() error { return ErrValidation }
