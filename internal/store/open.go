package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/bank-core/internal/bank"
)

// Open picks a Store implementation from the DATABASE_URL scheme:
// postgres:// (or postgresql://) opens a pooled Postgres store and ensures
// the schema, sqlite:// opens the embedded store at the given path. The
// returned func closes whatever was opened.
func Open(ctx context.Context, databaseURL string) (bank.Store, func(), error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		pg := NewPostgres(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil

	case strings.HasPrefix(databaseURL, "sqlite://"):
		s, err := OpenSQLite(strings.TrimPrefix(databaseURL, "sqlite://"))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unsupported DATABASE_URL scheme in %q", databaseURL)
	}
}
