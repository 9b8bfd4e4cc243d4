// Package sqlite provides a SQLite client over database/sql with optional query tracing
package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Config configures the sqlite handle
type Config struct {
	Path        string
	BusyTimeout time.Duration
	MaxConns    int
	SlowMs      int
}

// DB is a sqlite client with handle and optional tracer
type DB struct {
	SQL    *sql.DB
	Tracer QueryTracer
	SlowMs int
}

var openDB = sql.Open

// Open creates a new DB handle with the given config and optional tracer
func Open(cfg Config, tracer QueryTracer) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	db, err := openDB("sqlite3", DSN(cfg)) // use seam
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	return &DB{
		SQL:    db,
		Tracer: tracer,
		SlowMs: cfg.SlowMs,
	}, nil
}

// DSN builds the mattn/go-sqlite3 connection string with the pragmas every
// handle needs: WAL journaling, foreign keys on, and a busy timeout so
// concurrent writers back off instead of failing immediately
func DSN(cfg Config) string {
	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	v := url.Values{}
	v.Set("_busy_timeout", fmt.Sprint(busy.Milliseconds()))
	v.Set("_journal_mode", "WAL")
	v.Set("_foreign_keys", "on")
	if strings.HasPrefix(cfg.Path, ":memory:") {
		// shared cache so every pooled connection sees the same database
		return "file::memory:?cache=shared&" + v.Encode()
	}
	return "file:" + cfg.Path + "?" + v.Encode()
}

// Close closes the handle
func (d *DB) Close() {
	if d != nil && d.SQL != nil {
		_ = d.SQL.Close()
	}
}
