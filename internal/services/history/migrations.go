// Package history owns the routing ledger schema. The migrations here
// are handed to the store at open so every binary that touches the
// ledger runs against the same schema version
package history

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the subdirectory inside Migrations holding the sql files
const MigrationsDir = "migrations"
