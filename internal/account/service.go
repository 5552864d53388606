// Package account is the account-management collaborator: creation, naming
// and lifecycle transitions (Active, Blocked, Closed). It only changes
// lifecycle state; balances are mutated exclusively by the transfer
// orchestrator.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/bank-core/internal/bank"
)

// Service manages accounts against a backing store.
type Service struct {
	store  bank.Store
	logger *slog.Logger
}

// NewService creates an account service. A nil logger falls back to the
// process default.
func NewService(store bank.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Create opens a new account for the user with a zero balance.
func (s *Service) Create(ctx context.Context, userID int64, name string) (*bank.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("account name is required")
	}
	s.logger.Info("creating account", "user", userID, "name", name)

	var created *bank.Account
	err := s.store.InTx(ctx, func(tx bank.Tx) error {
		var err error
		created, err = tx.CreateAccount(ctx, &bank.Account{UserID: userID, Name: name})
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get resolves an account by id.
func (s *Service) Get(ctx context.Context, id int64) (*bank.Account, error) {
	var a *bank.Account
	err := s.store.InTx(ctx, func(tx bank.Tx) error {
		var err error
		a, err = tx.GetAccount(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Balance returns the current balance in minor units.
func (s *Service) Balance(ctx context.Context, id int64) (int64, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// Rename changes the account name after checking ownership.
func (s *Service) Rename(ctx context.Context, userID, accountID int64, name string) error {
	if name == "" {
		return fmt.Errorf("account name is required")
	}
	s.logger.Info("renaming account", "account", accountID, "name", name)

	return s.update(ctx, accountID, func(a *bank.Account) error {
		if a.UserID != userID {
			return bank.ErrNotOwner
		}
		a.Name = name
		return nil
	})
}

// Block stops outgoing transfers from the account. Incoming transfers keep
// working.
func (s *Service) Block(ctx context.Context, id int64) error {
	s.logger.Info("blocking account", "account", id)
	return s.update(ctx, id, func(a *bank.Account) error {
		return a.Block(time.Now())
	})
}

// Unblock reverses Block.
func (s *Service) Unblock(ctx context.Context, id int64) error {
	s.logger.Info("unblocking account", "account", id)
	return s.update(ctx, id, func(a *bank.Account) error {
		return a.Unblock()
	})
}

// Close terminally closes the account. No transfer may touch it afterwards
// and the transition is never reversed.
func (s *Service) Close(ctx context.Context, id int64) error {
	s.logger.Info("closing account", "account", id)
	return s.update(ctx, id, func(a *bank.Account) error {
		return a.Close(time.Now())
	})
}

// update runs a mutation under the account's lock: lock, re-read, mutate,
// save, all in one transaction. Every lifecycle write goes through here so
// it can never race a concurrent transfer on the same account.
func (s *Service) update(ctx context.Context, id int64, mutate func(*bank.Account) error) error {
	return s.store.InTx(ctx, func(tx bank.Tx) error {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.LockOne(ctx, a.LockKey()); err != nil {
			return err
		}
		if a, err = tx.GetAccount(ctx, id); err != nil {
			return err
		}
		if err := mutate(a); err != nil {
			return err
		}
		return tx.SaveAccount(ctx, a)
	})
}
