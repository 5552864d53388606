// Package store provides the Store implementations: Postgres for production,
// SQLite for embedded single-node deployments, and an in-process memory
// store used by tests and local development.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/lock"
)

// Memory is an in-process Store. Writes are staged per transaction and
// applied on commit while the transaction still holds its locks, which gives
// the same no-lost-update guarantee as the transactional backends.
type Memory struct {
	locks *lock.Table

	mu          sync.Mutex
	accounts    map[int64]*bank.Account
	entries     []bank.LedgerEntry
	nextAccount int64
	nextEntry   int64
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{
		locks:    lock.NewTable(),
		accounts: make(map[int64]*bank.Account),
	}
}

func (m *Memory) InTx(ctx context.Context, fn func(tx bank.Tx) error) error {
	sess := m.locks.Session()
	defer sess.Release()

	tx := &memoryTx{
		MemorySession: sess,
		store:         m,
		staged:        make(map[int64]*bank.Account),
	}
	if err := fn(tx); err != nil {
		return err
	}

	m.mu.Lock()
	for id, a := range tx.staged {
		m.accounts[id] = a
	}
	m.entries = append(m.entries, tx.entries...)
	m.mu.Unlock()
	return nil
}

// Entries returns a snapshot of the committed ledger in append order.
func (m *Memory) Entries() []bank.LedgerEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bank.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

type memoryTx struct {
	*lock.MemorySession

	store   *Memory
	staged  map[int64]*bank.Account
	entries []bank.LedgerEntry
}

func (tx *memoryTx) GetAccount(ctx context.Context, id int64) (*bank.Account, error) {
	if a, ok := tx.staged[id]; ok {
		return a.Clone(), nil
	}

	tx.store.mu.Lock()
	a, ok := tx.store.accounts[id]
	tx.store.mu.Unlock()
	if !ok {
		return nil, &bank.NotFoundError{AccountID: id}
	}
	return a.Clone(), nil
}

func (tx *memoryTx) SaveAccount(ctx context.Context, a *bank.Account) error {
	tx.store.mu.Lock()
	_, exists := tx.store.accounts[a.ID]
	tx.store.mu.Unlock()
	if !exists {
		if _, staged := tx.staged[a.ID]; !staged {
			return &bank.NotFoundError{AccountID: a.ID}
		}
	}
	tx.staged[a.ID] = a.Clone()
	return nil
}

func (tx *memoryTx) CreateAccount(ctx context.Context, a *bank.Account) (*bank.Account, error) {
	tx.store.mu.Lock()
	tx.store.nextAccount++
	id := tx.store.nextAccount
	tx.store.mu.Unlock()

	created := a.Clone()
	created.ID = id
	created.Balance = 0
	created.CreatedAt = time.Now().UTC()
	tx.staged[id] = created
	return created.Clone(), nil
}

func (tx *memoryTx) AppendEntry(ctx context.Context, fromID, toID, amount int64) (*bank.LedgerEntry, error) {
	tx.store.mu.Lock()
	tx.store.nextEntry++
	id := tx.store.nextEntry
	tx.store.mu.Unlock()

	entry := bank.LedgerEntry{
		ID:            id,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		CreatedAt:     time.Now().UTC(),
	}
	tx.entries = append(tx.entries, entry)
	return &entry, nil
}
