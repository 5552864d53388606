// Package lock serializes concurrent operations that touch the same
// entities. Locks are named, exclusive and transaction-scoped: they are
// granted against a shared backing table and released automatically when the
// enclosing transaction (or session) ends, so a crashed holder can never
// leak a lock.
package lock

import (
	"context"
	"sort"
)

// Locker grants transaction-scoped exclusive locks on named resources.
type Locker interface {
	// LockOne blocks until an exclusive lock on resourceKey is granted or
	// ctx is done.
	LockOne(ctx context.Context, resourceKey string) error

	// LockMany acquires locks for a sorted, deduplicated copy of the input
	// in ascending order, one at a time. The fixed acquisition order is the
	// deadlock-avoidance mechanism: two concurrent multi-resource requests
	// that share keys always contend on the shared keys in the same relative
	// order, so no cycle of waiters can form.
	LockMany(ctx context.Context, resourceKeys []string) error
}

// Lockable is implemented by entities that can be locked. The key is derived
// structurally from the entity's type and primary identifier, never via
// reflection.
type Lockable interface {
	LockKey() string
}

// Keys collects the lock keys of the given entities.
func Keys(items ...Lockable) []string {
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, it.LockKey())
	}
	return keys
}

// SortedUnique returns an ascending, deduplicated copy of keys. The input is
// left untouched.
func SortedUnique(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	sort.Strings(out)

	n := 0
	for i, k := range out {
		if i == 0 || out[n-1] != k {
			out[n] = k
			n++
		}
	}
	return out[:n]
}
