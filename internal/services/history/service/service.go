// Package service implements the routing ledger service
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"protokoll/internal/modkit/repokit"
	perrs "protokoll/internal/platform/errors"
	"protokoll/internal/platform/logger"
	"protokoll/internal/services/history/domain"
	"protokoll/internal/services/history/repo"
)

// Config for the ledger service
type Config struct {
	// HardLimit caps list query sizes
	HardLimit int
}

// Service implements domain.RecorderPort and domain.QueryPort
type Service struct {
	Repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	Cfg    Config
}

// New constructs the ledger service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("history.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("history.Service requires a non nil Repo binder")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 50
	}
	return &Service{Repo: binder.Bind(db), binder: binder, db: db, Cfg: cfg}
}

// Record implements domain.RecorderPort. The duplicate check and the
// insert share a transaction so two surfaces committing the same
// transcript cannot both win
func (s *Service) Record(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	if e.OutputPath == "" {
		return domain.Entry{}, perrs.InvalidArgf("history: output path required")
	}
	if !e.DecidedVia.Valid() {
		return domain.Entry{}, perrs.InvalidArgf("history: unknown decided_via %q", e.DecidedVia)
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = now
	}
	e.CreatedAt = now

	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		if e.TranscriptHash != "" {
			prior, found, err := r.FindByHash(ctx, e.TranscriptHash)
			if err != nil {
				return err
			}
			if found {
				return perrs.Conflictf(
					"history: transcript already routed to %s on %s",
					prior.OutputPath, prior.OccurredAt.Format(time.RFC3339),
				)
			}
		}
		return r.Insert(ctx, e)
	})
	if err != nil {
		return domain.Entry{}, err
	}

	logger.Named("history").Debug().
		Str("id", e.ID).
		Str("project", e.ProjectID).
		Str("via", string(e.DecidedVia)).
		Msg("routing recorded")
	return e, nil
}

// Recent implements domain.QueryPort
func (s *Service) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	return s.Repo.Recent(ctx, s.clamp(limit))
}

// ByProject implements domain.QueryPort
func (s *Service) ByProject(ctx context.Context, projectID string, limit int) ([]domain.Entry, error) {
	if projectID == "" {
		return nil, perrs.InvalidArgf("history: project id required")
	}
	return s.Repo.ByProject(ctx, projectID, s.clamp(limit))
}

// FindByHash implements domain.QueryPort
func (s *Service) FindByHash(ctx context.Context, hash string) (domain.Entry, bool, error) {
	if hash == "" {
		return domain.Entry{}, false, nil
	}
	return s.Repo.FindByHash(ctx, hash)
}

// PruneBefore implements domain.QueryPort
func (s *Service) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if cutoff.IsZero() {
		return 0, perrs.InvalidArgf("history: prune cutoff required")
	}
	n, err := s.Repo.PruneBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Named("history").Info().
			Int64("pruned", n).
			Time("cutoff", cutoff).
			Msg("ledger pruned")
	}
	return n, nil
}

func (s *Service) clamp(limit int) int {
	if limit <= 0 || limit > s.Cfg.HardLimit {
		return s.Cfg.HardLimit
	}
	return limit
}
