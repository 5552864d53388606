package lock

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	lockSQL    = `SELECT pg_advisory_xact_lock(hashtext($1))`
	tryLockSQL = `SELECT pg_try_advisory_xact_lock(hashtext($1))`
)

// Session is the subset of a pgx transaction the advisory locker needs.
// Binding the locker to the transaction is what scopes the lock: Postgres
// releases xact-level advisory locks on commit and rollback.
type Session interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Advisory acquires Postgres transaction-scoped advisory locks, hashing the
// resource key server-side with hashtext. Acquisition blocks until the lock
// is granted; it fails only when the underlying transaction aborts.
type Advisory struct {
	sess Session
}

// NewAdvisory binds an advisory locker to one open transaction.
func NewAdvisory(sess Session) *Advisory {
	return &Advisory{sess: sess}
}

func (l *Advisory) LockOne(ctx context.Context, resourceKey string) error {
	if _, err := l.sess.Exec(ctx, lockSQL, resourceKey); err != nil {
		return fmt.Errorf("acquire lock on %q: %w", resourceKey, err)
	}
	return nil
}

func (l *Advisory) LockMany(ctx context.Context, resourceKeys []string) error {
	for _, key := range SortedUnique(resourceKeys) {
		if err := l.LockOne(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// TryLockOne attempts the lock without blocking and reports whether it was
// granted.
func (l *Advisory) TryLockOne(ctx context.Context, resourceKey string) (bool, error) {
	var granted bool
	if err := l.sess.QueryRow(ctx, tryLockSQL, resourceKey).Scan(&granted); err != nil {
		return false, fmt.Errorf("try lock on %q: %w", resourceKey, err)
	}
	return granted, nil
}
