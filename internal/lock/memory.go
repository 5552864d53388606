package lock

import (
	"context"
	"sync"
)

// Table is an in-process lock table, the substitute for store-side advisory
// locks when the backing store has none (memory, SQLite). Each resource key
// maps to a gate of capacity one; a MemorySession holds acquired gates until
// it is released as a unit, mirroring transaction-scoped release.
type Table struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
}

// NewTable creates an empty lock table.
func NewTable() *Table {
	return &Table{gates: make(map[string]chan struct{})}
}

func (t *Table) gate(key string) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.gates[key]
	if !ok {
		g = make(chan struct{}, 1)
		t.gates[key] = g
	}
	return g
}

// Session opens a new transaction-scoped view of the table. The caller must
// arrange for Release to run on every exit path of the transaction.
func (t *Table) Session() *MemorySession {
	return &MemorySession{table: t, held: make(map[string]struct{})}
}

// MemorySession accumulates locks for one transaction. It is safe for use by
// the single goroutine driving that transaction.
type MemorySession struct {
	table *Table

	mu    sync.Mutex
	held  map[string]struct{}
	order []string
}

func (s *MemorySession) LockOne(ctx context.Context, resourceKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.held[resourceKey]; ok {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	g := s.table.gate(resourceKey)
	select {
	case g <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	s.held[resourceKey] = struct{}{}
	s.order = append(s.order, resourceKey)
	s.mu.Unlock()
	return nil
}

func (s *MemorySession) LockMany(ctx context.Context, resourceKeys []string) error {
	for _, key := range SortedUnique(resourceKeys) {
		if err := s.LockOne(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Release frees every lock the session holds. It is idempotent.
func (s *MemorySession) Release() {
	s.mu.Lock()
	order := s.order
	s.order = nil
	s.held = make(map[string]struct{})
	s.mu.Unlock()

	for _, key := range order {
		<-s.table.gate(key)
	}
}
