package store

import (
	"context"
	"fmt"
	"time"

	"protokoll/internal/platform/store/sqlite"
)

// openSQLite opens the database file and wraps it with our sql adapter
func openSQLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer sqlite.QueryTracer
	if cfg.SQLite.LogSQL {
		tracer = sqlite.Tracer(s.Log)
	}

	d, err := sqlite.Open(sqlite.Config{
		Path:        cfg.SQLite.Path,
		BusyTimeout: cfg.SQLite.BusyTimeout,
		MaxConns:    cfg.SQLite.MaxConns,
		SlowMs:      cfg.SQLite.SlowQueryMs,
	}, tracer)
	if err != nil {
		return nil, err
	}

	// Connection guardrails: ping with retry/backoff using the *handle* directly
	const (
		maxAttempts    = 5
		pingTimeout    = 2 * time.Second
		backoffStart   = 100 * time.Millisecond
		backoffCeiling = time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < maxAttempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = d.SQL.PingContext(toCtx) // <-- no adapter, no SQL trace line
		cancel()

		if lastErr == nil {
			if cfg.SQLite.Migrations != nil {
				if err := sqlite.Migrate(d.SQL, cfg.SQLite.Migrations, cfg.SQLite.MigrationsDir); err != nil {
					d.Close()
					return nil, err
				}
			}
			a := newSQLiteAdapter(d) // publish adapter only after the handle is healthy
			s.DB = a
			return a, nil
		}
		if ctx.Err() != nil {
			d.Close() // close the handle we opened
			return nil, ctx.Err()
		}
		time.Sleep(backoff)
		if backoff < backoffCeiling {
			backoff *= 2
			if backoff > backoffCeiling {
				backoff = backoffCeiling
			}
		}
	}

	d.Close()
	return nil, fmt.Errorf("sqlite ping failed after %d attempts: %w", maxAttempts, lastErr)
}
