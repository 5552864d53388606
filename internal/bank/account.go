package bank

import (
	"fmt"
	"time"
)

// Account is a balance-carrying account owned by a user. The balance is kept
// in minor units (cents) and must never be negative after a committed
// transaction. Lifecycle state is encoded through the two optional
// timestamps: a blocked account rejects outgoing transfers only, a closed
// account is terminal and rejects transfers in both directions.
type Account struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"created_at"`
	BlockedAt *time.Time `json:"blocked_at,omitempty"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// LockKey identifies the account in the lock manager's namespace.
func (a *Account) LockKey() string {
	return fmt.Sprintf("Account:%d", a.ID)
}

// Blocked reports whether outgoing transfers are rejected.
func (a *Account) Blocked() bool { return a.BlockedAt != nil }

// Closed reports whether the account is terminally closed.
func (a *Account) Closed() bool { return a.ClosedAt != nil }

// Add applies a signed delta to the balance. Callers are responsible for
// checking the non-negativity invariant before persisting.
func (a *Account) Add(delta int64) { a.Balance += delta }

// Block stops outgoing transfers. Blocking an already blocked account is a
// no-op; a closed account cannot change state.
func (a *Account) Block(now time.Time) error {
	if a.Closed() {
		return ErrAccountClosed
	}
	if a.BlockedAt == nil {
		t := now.UTC()
		a.BlockedAt = &t
	}
	return nil
}

// Unblock reverses Block.
func (a *Account) Unblock() error {
	if a.Closed() {
		return ErrAccountClosed
	}
	a.BlockedAt = nil
	return nil
}

// Close moves the account to its terminal state. ClosedAt is never cleared.
func (a *Account) Close(now time.Time) error {
	if a.Closed() {
		return ErrAccountClosed
	}
	t := now.UTC()
	a.ClosedAt = &t
	return nil
}

// Clone returns an independent copy so that staged transaction state never
// aliases committed state.
func (a *Account) Clone() *Account {
	c := *a
	if a.BlockedAt != nil {
		t := *a.BlockedAt
		c.BlockedAt = &t
	}
	if a.ClosedAt != nil {
		t := *a.ClosedAt
		c.ClosedAt = &t
	}
	return &c
}
