package bank

import "time"

// LedgerEntry is the immutable record of one completed transfer. Entries are
// append-only: the store assigns ID and CreatedAt at append time and nothing
// ever updates or deletes a row. Account balances are a cached projection of
// this trail.
type LedgerEntry struct {
	ID            int64     `json:"id"`
	FromAccountID int64     `json:"from_acc_id"`
	ToAccountID   int64     `json:"to_acc_id"`
	Amount        int64     `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}
