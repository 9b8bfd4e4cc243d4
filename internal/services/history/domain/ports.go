package domain

import (
	"context"
	"time"
)

// RecorderPort writes ledger entries
type RecorderPort interface {
	// Record stores e and returns it with ID and CreatedAt assigned.
	// A hash already present in the ledger yields a conflict error
	Record(ctx context.Context, e Entry) (Entry, error)
}

// QueryPort reads the ledger
type QueryPort interface {
	Recent(ctx context.Context, limit int) ([]Entry, error)
	ByProject(ctx context.Context, projectID string, limit int) ([]Entry, error)
	FindByHash(ctx context.Context, hash string) (Entry, bool, error)
	// PruneBefore deletes entries older than cutoff and reports how many
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
