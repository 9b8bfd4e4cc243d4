// Package service implements the routing service
package service

import (
	"context"
	"os"
	"strings"
	"sync"

	perrs "protokoll/internal/platform/errors"
	"protokoll/internal/platform/logger"

	"protokoll/internal/adapters/inbox"
	"protokoll/internal/core/classify"
	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/route"
	histdom "protokoll/internal/services/history/domain"
	"protokoll/internal/services/notes"
	"protokoll/internal/services/routing/domain"
)

// Config for the routing service
type Config struct {
	// Workers bounds RunDir concurrency
	Workers int
}

// Service implements domain.RouterPort
type Service struct {
	pack     *contextpack.Pack
	router   *route.Router
	sink     *notes.Sink
	recorder histdom.RecorderPort
	query    histdom.QueryPort
	cfg      Config
	log      *logger.Logger
}

// New constructs the routing service over a loaded context pack and the
// ledger ports
func New(pack *contextpack.Pack, recorder histdom.RecorderPort, query histdom.QueryPort, cfg Config) *Service {
	if pack == nil {
		panic("routing.Service requires a non nil context pack")
	}
	if recorder == nil || query == nil {
		panic("routing.Service requires history recorder and query ports")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Service{
		pack:     pack,
		router:   route.New(pack.Routing(), classify.New(pack)),
		sink:     notes.NewSink(),
		recorder: recorder,
		query:    query,
		cfg:      cfg,
		log:      logger.Named("routing"),
	}
}

// Pack returns the context pack the service routes with
func (s *Service) Pack() *contextpack.Pack { return s.pack }

// Preview implements domain.RouterPort
func (s *Service) Preview(_ context.Context, n inbox.Note) (domain.Outcome, error) {
	if strings.TrimSpace(n.Transcript) == "" {
		return domain.Outcome{}, perrs.InvalidArgf("routing: empty transcript")
	}
	d := s.router.Route(n.Note)
	return domain.Outcome{
		Decision:   d,
		OutputPath: s.router.BuildOutputPath(d, n.Note),
	}, nil
}

// Commit implements domain.RouterPort.
// The ledger insert is the committing step: losing a duplicate race there
// removes the freshly written file again so retries leave no strays
func (s *Service) Commit(ctx context.Context, n inbox.Note, via histdom.Via) (domain.Outcome, error) {
	oc, err := s.Preview(ctx, n)
	if err != nil {
		return domain.Outcome{}, err
	}

	if n.Hash != "" {
		prior, found, err := s.query.FindByHash(ctx, n.Hash)
		if err != nil {
			return domain.Outcome{}, err
		}
		if found {
			return domain.Outcome{}, perrs.Conflictf(
				"routing: transcript already routed to %s", prior.OutputPath)
		}
	}

	written, err := s.sink.Write(notes.Input{
		Decision:     oc.Decision,
		Note:         n.Note,
		OutputPath:   oc.OutputPath,
		CapturedWith: n.Source,
	})
	if err != nil {
		return domain.Outcome{}, err
	}

	entry, err := s.recorder.Record(ctx, histdom.NewEntry(oc.Decision, n.Note, written, via))
	if err != nil {
		_ = os.Remove(written)
		return domain.Outcome{}, err
	}

	oc.WrittenPath = written
	oc.HistoryID = entry.ID
	s.log.Info().
		Str("project", oc.Decision.ProjectID).
		Str("path", written).
		Float64("confidence", oc.Decision.Confidence).
		Str("via", string(via)).
		Msg("note routed")
	return oc, nil
}

// RouteFile implements domain.RouterPort
func (s *Service) RouteFile(ctx context.Context, path string, via histdom.Via) (domain.Outcome, error) {
	n, err := inbox.Read(path)
	if err != nil {
		return domain.Outcome{}, err
	}
	return s.Commit(ctx, n, via)
}

// RunDir implements domain.RouterPort.
// Items keep the directory listing order regardless of which worker
// finished first
func (s *Service) RunDir(ctx context.Context, dir string, via histdom.Via) (domain.BatchReport, error) {
	files, err := inbox.List(dir)
	if err != nil {
		return domain.BatchReport{}, err
	}

	items := make([]domain.BatchItem, len(files))

	sem := make(chan struct{}, s.cfg.Workers)
	wg := sync.WaitGroup{}

	for i := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			items[i] = s.routeOne(ctx, files[i], via)
		}(i)
	}
	wg.Wait()

	rep := domain.BatchReport{Total: len(items), Items: items}
	for _, it := range items {
		switch {
		case it.Duplicate:
			rep.Duplicates++
		case it.Err != "":
			rep.Failed++
		case it.ProjectID != "":
			rep.Routed++
		default:
			rep.Defaulted++
		}
	}
	s.log.Info().
		Str("dir", dir).
		Int("total", rep.Total).
		Int("routed", rep.Routed).
		Int("defaulted", rep.Defaulted).
		Int("duplicates", rep.Duplicates).
		Int("failed", rep.Failed).
		Msg("inbox run complete")
	return rep, nil
}

func (s *Service) routeOne(ctx context.Context, path string, via histdom.Via) domain.BatchItem {
	it := domain.BatchItem{File: path}
	if err := ctx.Err(); err != nil {
		it.Err = err.Error()
		return it
	}
	oc, err := s.RouteFile(ctx, path, via)
	switch {
	case perrs.IsCode(err, perrs.ErrorCodeConflict):
		it.Duplicate = true
	case err != nil:
		it.Err = err.Error()
	default:
		it.ProjectID = oc.Decision.ProjectID
		it.OutputPath = oc.WrittenPath
		it.Confidence = oc.Decision.Confidence
	}
	return it
}
