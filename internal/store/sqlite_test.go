package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bank-core/internal/bank"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteAccountRoundTrip(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	var created *bank.Account
	err := s.InTx(ctx, func(tx bank.Tx) error {
		var err error
		created, err = tx.CreateAccount(ctx, &bank.Account{UserID: 3, Name: "checking"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(0), created.Balance)
	assert.False(t, created.CreatedAt.IsZero())

	err = s.InTx(ctx, func(tx bank.Tx) error {
		a, err := tx.GetAccount(ctx, created.ID)
		if err != nil {
			return err
		}
		a.Balance = 250
		require.NoError(t, a.Block(time.Now()))
		return tx.SaveAccount(ctx, a)
	})
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx bank.Tx) error {
		a, err := tx.GetAccount(ctx, created.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(250), a.Balance)
		assert.True(t, a.Blocked())
		assert.False(t, a.Closed())
		return nil
	})
	require.NoError(t, err)
}

func TestSQLiteGetUnknownAccount(t *testing.T) {
	s := openTestSQLite(t)
	err := s.InTx(context.Background(), func(tx bank.Tx) error {
		_, err := tx.GetAccount(context.Background(), 404)
		return err
	})
	assert.True(t, bank.IsNotFound(err))
}

func TestSQLiteSaveUnknownAccount(t *testing.T) {
	s := openTestSQLite(t)
	err := s.InTx(context.Background(), func(tx bank.Tx) error {
		return tx.SaveAccount(context.Background(), &bank.Account{ID: 404, Name: "x"})
	})
	assert.True(t, bank.IsNotFound(err))
}

func TestSQLiteRollbackDiscardsWrites(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	var id int64
	err := s.InTx(ctx, func(tx bank.Tx) error {
		a, err := tx.CreateAccount(ctx, &bank.Account{UserID: 1, Name: "a"})
		if err != nil {
			return err
		}
		id = a.ID
		a.Balance = 500
		return tx.SaveAccount(ctx, a)
	})
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx bank.Tx) error {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		a.Balance = 0
		if err := tx.SaveAccount(ctx, a); err != nil {
			return err
		}
		return bank.ErrInsufficientFunds
	})
	assert.ErrorIs(t, err, bank.ErrInsufficientFunds)

	err = s.InTx(ctx, func(tx bank.Tx) error {
		a, err := tx.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(500), a.Balance)
		return nil
	})
	require.NoError(t, err)
}

func TestSQLiteAppendEntryAssignsIDAndTimestamp(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	var entry *bank.LedgerEntry
	err := s.InTx(ctx, func(tx bank.Tx) error {
		if _, err := tx.CreateAccount(ctx, &bank.Account{UserID: 1, Name: "a"}); err != nil {
			return err
		}
		if _, err := tx.CreateAccount(ctx, &bank.Account{UserID: 1, Name: "b"}); err != nil {
			return err
		}
		var err error
		entry, err = tx.AppendEntry(ctx, 1, 2, 700)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, int64(1), entry.FromAccountID)
	assert.Equal(t, int64(2), entry.ToAccountID)
	assert.Equal(t, int64(700), entry.Amount)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestSQLiteDuplicateAccountNamePerUser(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx bank.Tx) error {
		_, err := tx.CreateAccount(ctx, &bank.Account{UserID: 1, Name: "main"})
		return err
	})
	require.NoError(t, err)

	err = s.InTx(ctx, func(tx bank.Tx) error {
		_, err := tx.CreateAccount(ctx, &bank.Account{UserID: 1, Name: "main"})
		return err
	})
	assert.True(t, bank.IsRetryable(err))

	// A different user may reuse the name.
	err = s.InTx(ctx, func(tx bank.Tx) error {
		_, err := tx.CreateAccount(ctx, &bank.Account{UserID: 2, Name: "main"})
		return err
	})
	require.NoError(t, err)
}

func TestOpenRejectsUnknownScheme(t *testing.T) {
	_, _, err := Open(context.Background(), "mysql://localhost/bank")
	assert.Error(t, err)
}

func TestOpenSQLiteScheme(t *testing.T) {
	st, closeStore, err := Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "bank.db"))
	require.NoError(t, err)
	defer closeStore()

	err = st.InTx(context.Background(), func(tx bank.Tx) error {
		_, err := tx.CreateAccount(context.Background(), &bank.Account{UserID: 1, Name: "a"})
		return err
	})
	require.NoError(t, err)
}
