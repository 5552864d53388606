package bank

import (
	"context"

	"github.com/example/bank-core/internal/lock"
)

// Tx is the transaction-scoped view of the backing store. Locks taken through
// the embedded Locker are held until the transaction ends; committing or
// rolling back releases them together with the data mutation, so no separate
// unlock call exists.
type Tx interface {
	lock.Locker

	// GetAccount resolves an account id. Returns *NotFoundError when the id
	// does not exist.
	GetAccount(ctx context.Context, id int64) (*Account, error)

	// SaveAccount persists mutable account state within the transaction.
	SaveAccount(ctx context.Context, a *Account) error

	// CreateAccount inserts a new account with zero balance. The store
	// assigns ID and CreatedAt.
	CreateAccount(ctx context.Context, a *Account) (*Account, error)

	// AppendEntry appends one completed transfer to the ledger. The store
	// assigns ID and CreatedAt; the returned entry carries both.
	AppendEntry(ctx context.Context, fromID, toID, amount int64) (*LedgerEntry, error)
}

// Store runs functions inside a single atomic transaction. A nil error from
// fn commits; any error rolls the whole transaction back, leaving balances
// and the ledger untouched and releasing all locks.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
