// Package repo provides sqlite access to the routing ledger
package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"protokoll/internal/modkit/repokit"
	pstrings "protokoll/internal/platform/strings"
	"protokoll/internal/services/history/domain"
)

type (
	db     struct{ q repokit.Queryer }
	binder struct{}
)

// NewSQLite constructs a repo binder for the sqlite ledger
func NewSQLite() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &db{q: q} }

// Storage defines the ledger repository
type Storage interface {
	Insert(ctx context.Context, e domain.Entry) error
	Recent(ctx context.Context, limit int) ([]domain.Entry, error)
	ByProject(ctx context.Context, projectID string, limit int) ([]domain.Entry, error)
	FindByHash(ctx context.Context, hash string) (domain.Entry, bool, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

const entryColumns = `id, occurred_at, source_file, transcript_hash, project_id,
	destination_path, output_path, confidence, reasoning, signal_count,
	signals, alternates, decided_via, created_at`

// Insert implements Storage
func (s *db) Insert(ctx context.Context, e domain.Entry) error {
	signals, err := domain.MarshalSignals(e.Signals)
	if err != nil {
		return err
	}
	const q = `INSERT INTO routings (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.q.Exec(ctx, q,
		e.ID, e.OccurredAt.UTC(), e.SourceFile, e.TranscriptHash,
		pstrings.SQLNull(e.ProjectID), e.DestinationPath, e.OutputPath,
		e.Confidence, e.Reasoning, e.SignalCount, signals, e.Alternates,
		string(e.DecidedVia), e.CreatedAt.UTC(),
	)
	return err
}

// Recent implements Storage
func (s *db) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM routings
		ORDER BY occurred_at DESC, id LIMIT ?`
	rows, err := s.q.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows, limit)
}

// ByProject implements Storage
func (s *db) ByProject(ctx context.Context, projectID string, limit int) ([]domain.Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM routings
		WHERE project_id = ?
		ORDER BY occurred_at DESC, id LIMIT ?`
	rows, err := s.q.Query(ctx, q, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows, limit)
}

// FindByHash implements Storage; the newest entry wins when a hash was
// recorded more than once
func (s *db) FindByHash(ctx context.Context, hash string) (domain.Entry, bool, error) {
	const q = `SELECT ` + entryColumns + ` FROM routings
		WHERE transcript_hash = ?
		ORDER BY occurred_at DESC, id LIMIT 1`
	row := s.q.QueryRow(ctx, q, hash)
	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entry{}, false, nil
		}
		return domain.Entry{}, false, err
	}
	return e, true, nil
}

// PruneBefore implements Storage
func (s *db) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM routings WHERE occurred_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanEntries(rows repokit.Rows, capHint int) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0, max(capHint, 0))
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanEntry maps one routings row; project_id and the signals JSON need
// unwrapping before they fit the domain shape
func scanEntry(scan func(dest ...any) error) (domain.Entry, error) {
	var (
		e       domain.Entry
		project sql.NullString
		signals string
		via     string
	)
	if err := scan(
		&e.ID, &e.OccurredAt, &e.SourceFile, &e.TranscriptHash, &project,
		&e.DestinationPath, &e.OutputPath, &e.Confidence, &e.Reasoning,
		&e.SignalCount, &signals, &e.Alternates, &via, &e.CreatedAt,
	); err != nil {
		return domain.Entry{}, err
	}
	e.ProjectID = project.String
	e.DecidedVia = domain.Via(via)
	sigs, err := domain.UnmarshalSignals(signals)
	if err != nil {
		return domain.Entry{}, err
	}
	e.Signals = sigs
	return e, nil
}
