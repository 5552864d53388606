package bank

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{AccountID: 7}
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("resolve: %w", err)))
	assert.False(t, IsNotFound(ErrInsufficientFunds))
	assert.Contains(t, err.Error(), "7")
}

func TestIsRetryable(t *testing.T) {
	storage := &StorageError{Op: "commit", Err: errors.New("connection reset")}
	assert.True(t, IsRetryable(storage))
	assert.True(t, IsRetryable(fmt.Errorf("transfer: %w", storage)))

	for _, err := range []error{
		ErrInvalidAmount,
		ErrSourceBlocked,
		ErrSourceClosed,
		ErrDestinationClosed,
		ErrInsufficientFunds,
		ErrNotOwner,
		&NotFoundError{AccountID: 1},
	} {
		assert.False(t, IsRetryable(err), err.Error())
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("broken pipe")
	err := &StorageError{Op: "begin", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "begin")
}
