// Package transfer implements the funds-transfer orchestrator: the single
// entry point that moves money between two accounts under concurrent access
// with no lost updates, no double-spend and no deadlock between transfers
// that touch overlapping accounts.
package transfer

import (
	"context"
	"log/slog"

	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/lock"
)

// Service runs transfers against a backing store. It holds its dependencies
// explicitly; callers construct one per store.
type Service struct {
	store  bank.Store
	logger *slog.Logger
}

// NewService creates a transfer service. A nil logger falls back to the
// process default.
func NewService(store bank.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Transfer moves amount (minor units) from one account to another inside a
// single atomic transaction and appends the ledger entry recording it.
//
// The serialization point is the sorted multi-lock acquisition: two transfers
// racing in opposite directions between the same pair of accounts attempt the
// same keys in the same order, so one runs to completion before the other's
// lock request is granted. Account state read before the locks were held may
// be stale, hence the mandatory re-read.
func (s *Service) Transfer(ctx context.Context, fromID, toID, amount int64) (*bank.LedgerEntry, error) {
	s.logger.Info("creating transfer",
		"from", fromID,
		"to", toID,
		"amount", bank.FormatAmount(amount),
	)

	var entry *bank.LedgerEntry
	err := s.store.InTx(ctx, func(tx bank.Tx) error {
		from, err := tx.GetAccount(ctx, fromID)
		if err != nil {
			return err
		}
		to, err := tx.GetAccount(ctx, toID)
		if err != nil {
			return err
		}
		if amount <= 0 {
			return bank.ErrInvalidAmount
		}

		if err := tx.LockMany(ctx, lock.Keys(from, to)); err != nil {
			return err
		}

		// Re-read under the locks; only this state is authoritative.
		if from, err = tx.GetAccount(ctx, fromID); err != nil {
			return err
		}
		if toID == fromID {
			to = from
		} else if to, err = tx.GetAccount(ctx, toID); err != nil {
			return err
		}

		if from.Blocked() {
			return bank.ErrSourceBlocked
		}
		if from.Closed() {
			return bank.ErrSourceClosed
		}
		if to.Closed() {
			return bank.ErrDestinationClosed
		}

		from.Add(-amount)
		if from.Balance < 0 {
			return bank.ErrInsufficientFunds
		}
		if err := tx.SaveAccount(ctx, from); err != nil {
			return err
		}

		to.Add(amount)
		if err := tx.SaveAccount(ctx, to); err != nil {
			return err
		}

		entry, err = tx.AppendEntry(ctx, fromID, toID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
