package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalanced indicates total debits != total credits.
	ErrUnbalanced = errors.New("ledger: transaction lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = errors.New("ledger: transaction requires at least two lines")
	// ErrInvalidAccount indicates the account is missing, inactive, or not a detail account.
	ErrInvalidAccount = errors.New("ledger: account is not postable")
	// ErrInvalidPeriod indicates the transaction date falls outside the period bounds.
	ErrInvalidPeriod = errors.New("ledger: date outside period")
	// ErrPeriodClosed indicates the target period has an active closing transaction.
	ErrPeriodClosed = errors.New("ledger: period is closed")
	// ErrAlreadyClosed indicates the period was already closed.
	ErrAlreadyClosed = errors.New("ledger: period already closed")
	// ErrNotClosed indicates no active closing transaction exists.
	ErrNotClosed = errors.New("ledger: period is not closed")
	// ErrNothingToClose indicates no temporary account carries a balance.
	ErrNothingToClose = errors.New("ledger: no movements to close")
	// ErrPostingIncomplete indicates a partial write was detected and voided.
	ErrPostingIncomplete = errors.New("ledger: posting incomplete")
	// ErrPeriodNotFound indicates the period does not exist for the owner.
	ErrPeriodNotFound = errors.New("ledger: period not found")
	// ErrAccountNotFound indicates the catalog has no such account code.
	ErrAccountNotFound = errors.New("ledger: account not found")
	// ErrTransactionNotFound indicates a missing transaction.
	ErrTransactionNotFound = errors.New("ledger: transaction not found")
	// ErrPeriodOverlap indicates the requested period conflicts with an existing range.
	ErrPeriodOverlap = errors.New("ledger: period overlaps existing range")
	// ErrDuplicateRef indicates the idempotency ref was already used.
	ErrDuplicateRef = errors.New("ledger: ref already linked to a transaction")
	// ErrInvalidStatus indicates the transaction cannot change state.
	ErrInvalidStatus = errors.New("ledger: invalid status transition")
	// ErrInvalidInput groups proposal shape failures (missing fields,
	// negative amounts, bad types). Wrap with %w and a detail message.
	ErrInvalidInput = errors.New("ledger: invalid input")
)

// StorageError wraps a failure from the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ledger: storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WrapStorage tags err with the failing operation unless it is already a
// domain sentinel.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
