package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/lock"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	amount INTEGER NOT NULL DEFAULT 0 CHECK (amount >= 0),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	blocked_at TIMESTAMP,
	closed_at TIMESTAMP,
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	from_acc_id INTEGER NOT NULL REFERENCES accounts(id),
	to_acc_id INTEGER NOT NULL REFERENCES accounts(id),
	amount INTEGER NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at);
`

// SQLite is the embedded single-node Store. SQLite has no advisory locks, so
// serialization of conflicting transfers falls to the in-process lock table;
// a single writer connection keeps the database itself out of busy-retry
// territory.
type SQLite struct {
	db    *sql.DB
	locks *lock.Table
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLite{db: db, locks: lock.NewTable()}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) InTx(ctx context.Context, fn func(tx bank.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &bank.StorageError{Op: "begin", Err: err}
	}

	sess := s.locks.Session()
	defer sess.Release()

	if err := fn(&sqliteTx{MemorySession: sess, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &bank.StorageError{Op: "commit", Err: err}
	}
	return nil
}

type sqliteTx struct {
	*lock.MemorySession

	tx *sql.Tx
}

func (t *sqliteTx) GetAccount(ctx context.Context, id int64) (*bank.Account, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, user_id, name, amount, created_at, blocked_at, closed_at
		FROM accounts
		WHERE id = ?
	`, id)

	var a bank.Account
	var blocked, closed sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.CreatedAt, &blocked, &closed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &bank.NotFoundError{AccountID: id}
		}
		return nil, &bank.StorageError{Op: "get account", Err: err}
	}
	if blocked.Valid {
		a.BlockedAt = &blocked.Time
	}
	if closed.Valid {
		a.ClosedAt = &closed.Time
	}
	return &a, nil
}

func (t *sqliteTx) SaveAccount(ctx context.Context, a *bank.Account) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE accounts
		SET user_id = ?, name = ?, amount = ?, blocked_at = ?, closed_at = ?
		WHERE id = ?
	`, a.UserID, a.Name, a.Balance, a.BlockedAt, a.ClosedAt, a.ID)
	if err != nil {
		return &bank.StorageError{Op: "save account", Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &bank.NotFoundError{AccountID: a.ID}
	}
	return nil
}

func (t *sqliteTx) CreateAccount(ctx context.Context, a *bank.Account) (*bank.Account, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO accounts (user_id, name, amount) VALUES (?, ?, 0)
	`, a.UserID, a.Name)
	if err != nil {
		return nil, &bank.StorageError{Op: "create account", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, &bank.StorageError{Op: "create account", Err: err}
	}
	return t.GetAccount(ctx, id)
}

func (t *sqliteTx) AppendEntry(ctx context.Context, fromID, toID, amount int64) (*bank.LedgerEntry, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO transactions (from_acc_id, to_acc_id, amount) VALUES (?, ?, ?)
	`, fromID, toID, amount)
	if err != nil {
		return nil, &bank.StorageError{Op: "append entry", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, &bank.StorageError{Op: "append entry", Err: err}
	}

	// Re-read so the caller observes the store-assigned created_at.
	var entry bank.LedgerEntry
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, from_acc_id, to_acc_id, amount, created_at
		FROM transactions
		WHERE id = ?
	`, id)
	if err := row.Scan(&entry.ID, &entry.FromAccountID, &entry.ToAccountID, &entry.Amount, &entry.CreatedAt); err != nil {
		return nil, &bank.StorageError{Op: "append entry", Err: err}
	}
	return &entry, nil
}
