package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	msqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies all up migrations from dir inside src (NNN_name.up.sql
// files) against db. A database already at head is not an error
func Migrate(db *sql.DB, src fs.FS, dir string) error {
	sourceDrv, err := iofs.New(src, dir)
	if err != nil {
		return fmt.Errorf("sqlite: open migration source: %w", err)
	}
	dbDrv, err := msqlite.WithInstance(db, &msqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite: open migration target: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDrv, "sqlite3", dbDrv)
	if err != nil {
		return fmt.Errorf("sqlite: build migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite: apply migrations: %w", err)
	}
	return nil
}
