package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/bank-core/internal/bank"
	"github.com/example/bank-core/internal/lock"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	name TEXT NOT NULL,
	amount BIGINT NOT NULL DEFAULT 0 CHECK (amount >= 0),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	blocked_at TIMESTAMP,
	closed_at TIMESTAMP,
	CONSTRAINT uk_account_user_name UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	from_acc_id BIGINT NOT NULL REFERENCES accounts (id),
	to_acc_id BIGINT NOT NULL REFERENCES accounts (id),
	amount BIGINT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions (created_at);
`

// Postgres is the primary Store. Each InTx call runs on one database
// transaction; conflicting transfers serialize on transaction-scoped
// advisory locks, which Postgres drops on commit or rollback together with
// the data mutation.
type Postgres struct {
	Pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool}
}

// EnsureSchema creates the tables if they do not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.Pool.Exec(ctx, postgresSchema); err != nil {
		return &bank.StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

func (p *Postgres) InTx(ctx context.Context, fn func(tx bank.Tx) error) error {
	tx, err := p.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &bank.StorageError{Op: "begin", Err: err}
	}

	if err := fn(&pgTx{Advisory: lock.NewAdvisory(tx), tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &bank.StorageError{Op: "commit", Err: err}
	}
	return nil
}

type pgTx struct {
	*lock.Advisory

	tx pgx.Tx
}

func (t *pgTx) GetAccount(ctx context.Context, id int64) (*bank.Account, error) {
	var a bank.Account
	err := t.tx.QueryRow(ctx, `
		SELECT id, user_id, name, amount, created_at, blocked_at, closed_at
		FROM accounts
		WHERE id = $1
	`, id).Scan(&a.ID, &a.UserID, &a.Name, &a.Balance, &a.CreatedAt, &a.BlockedAt, &a.ClosedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &bank.NotFoundError{AccountID: id}
		}
		return nil, &bank.StorageError{Op: "get account", Err: err}
	}
	return &a, nil
}

func (t *pgTx) SaveAccount(ctx context.Context, a *bank.Account) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE accounts
		SET user_id = $1, name = $2, amount = $3, blocked_at = $4, closed_at = $5
		WHERE id = $6
	`, a.UserID, a.Name, a.Balance, a.BlockedAt, a.ClosedAt, a.ID)
	if err != nil {
		return &bank.StorageError{Op: "save account", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &bank.NotFoundError{AccountID: a.ID}
	}
	return nil
}

func (t *pgTx) CreateAccount(ctx context.Context, a *bank.Account) (*bank.Account, error) {
	created := a.Clone()
	created.Balance = 0
	err := t.tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, amount)
		VALUES ($1, $2, 0)
		RETURNING id, created_at
	`, a.UserID, a.Name).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, &bank.StorageError{Op: "create account", Err: err}
	}
	return created, nil
}

func (t *pgTx) AppendEntry(ctx context.Context, fromID, toID, amount int64) (*bank.LedgerEntry, error) {
	entry := bank.LedgerEntry{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
	}
	err := t.tx.QueryRow(ctx, `
		INSERT INTO transactions (from_acc_id, to_acc_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, fromID, toID, amount).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, &bank.StorageError{Op: "append entry", Err: err}
	}
	return &entry, nil
}
