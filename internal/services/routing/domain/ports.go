package domain

import (
	"context"

	"protokoll/internal/adapters/inbox"
	histdom "protokoll/internal/services/history/domain"
)

// RouterPort routes staged notes end to end
type RouterPort interface {
	// Preview classifies n and plans its destination without side effects
	Preview(ctx context.Context, n inbox.Note) (Outcome, error)

	// Commit classifies n, writes the markdown note, and records the
	// decision in the ledger. A transcript hash already in the ledger
	// yields a conflict error and writes nothing
	Commit(ctx context.Context, n inbox.Note, via histdom.Via) (Outcome, error)

	// RouteFile reads the transcript at path and commits it
	RouteFile(ctx context.Context, path string, via histdom.Via) (Outcome, error)

	// RunDir routes every transcript directly under dir. Per file
	// failures and duplicates are reported in the result, not returned
	RunDir(ctx context.Context, dir string, via histdom.Via) (BatchReport, error)
}

// Ports carries the ledger dependencies the routing module is wired with
type Ports struct {
	Recorder histdom.RecorderPort
	Query    histdom.QueryPort
}
