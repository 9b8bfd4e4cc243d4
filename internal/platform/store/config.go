package store

import (
	"io/fs"
	"time"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	SQLite SQLiteConfig
}

// SQLiteConfig configures the sqlite database file and tracing
type SQLiteConfig struct {
	Enabled     bool
	Path        string
	MaxConns    int
	LogSQL      bool
	SlowQueryMs int

	// Guard/boot knobs:
	BusyTimeout time.Duration // default 5s, applied as the _busy_timeout pragma

	// Migrations, when set, are applied during Open before the handle is published
	Migrations    fs.FS
	MigrationsDir string
}
