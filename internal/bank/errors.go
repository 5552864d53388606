package bank

import (
	"errors"
	"fmt"
)

// Domain validation failures. Each kind is distinct so callers can map them
// to transport-level responses, and none of them is retryable: retrying a
// rejected transfer does not change the outcome.
var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrSourceBlocked     = errors.New("source account is blocked")
	ErrSourceClosed      = errors.New("source account is closed")
	ErrDestinationClosed = errors.New("destination account is closed")
	ErrInsufficientFunds = errors.New("insufficient funds on source account")
	ErrNotOwner          = errors.New("account does not belong to user")
	ErrAccountClosed     = errors.New("account is closed")
)

// NotFoundError reports that an account id did not resolve.
type NotFoundError struct {
	AccountID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %d not found", e.AccountID)
}

// StorageError wraps a transport or transaction-layer failure. The enclosing
// transaction is guaranteed to have rolled back, so this is the only error
// class a caller may safely retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an account resolution failure.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRetryable reports whether err came from the storage layer rather than
// from domain validation.
func IsRetryable(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
