// Package service implements the inbox watcher: filesystem events are
// debounced per file so a transcription app streaming chunks commits
// once, after the file goes quiet
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	perrs "protokoll/internal/platform/errors"
	"protokoll/internal/platform/logger"

	"protokoll/internal/adapters/inbox"
	histdom "protokoll/internal/services/history/domain"
	routdom "protokoll/internal/services/routing/domain"
)

// Config for the watch service
type Config struct {
	// Dir is the inbox directory to watch
	Dir string

	// Settle is the quiet period a file must hold before it routes
	Settle time.Duration

	// Sweep routes files already present when the watcher starts
	Sweep bool

	// Backlog bounds the settled file queue
	Backlog int
}

// Service implements domain.RunnerPort
type Service struct {
	router routdom.RouterPort
	cfg    Config
	log    *logger.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	work    chan string
}

// New constructs the watch service over the routing port
func New(router routdom.RouterPort, cfg Config) *Service {
	if router == nil {
		panic("watch.Service requires a non nil router port")
	}
	if cfg.Dir == "" {
		panic("watch.Service requires an inbox directory")
	}
	if cfg.Settle <= 0 {
		cfg.Settle = 2 * time.Second
	}
	if cfg.Backlog <= 0 {
		cfg.Backlog = 64
	}
	return &Service{
		router:  router,
		cfg:     cfg,
		log:     logger.Named("watch"),
		pending: make(map[string]*time.Timer),
		work:    make(chan string, cfg.Backlog),
	}
}

// Run watches the inbox until ctx is cancelled
func (s *Service) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(s.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.cfg.Dir, err)
	}

	if s.cfg.Sweep {
		rep, err := s.router.RunDir(ctx, s.cfg.Dir, histdom.ViaWatch)
		if err != nil {
			return err
		}
		s.log.Info().
			Int("total", rep.Total).
			Int("routed", rep.Routed).
			Int("duplicates", rep.Duplicates).
			Msg("initial sweep done")
	}

	s.log.Info().
		Str("dir", s.cfg.Dir).
		Dur("settle", s.cfg.Settle).
		Msg("watching inbox")

	for {
		select {
		case <-ctx.Done():
			s.drain()
			return ctx.Err()
		case path := <-s.work:
			s.route(ctx, path)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			s.handle(ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handle debounces raw events: every create or write restarts the file's
// settle timer
func (s *Service) handle(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	if !inbox.Routable(ev.Name) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[ev.Name]; ok {
		t.Stop()
	}
	path := ev.Name
	s.pending[path] = time.AfterFunc(s.cfg.Settle, func() { s.enqueue(path) })
}

// enqueue hands a settled file to the run loop without blocking the
// timer goroutine; a full queue drops the file, the next write retries it
func (s *Service) enqueue(path string) {
	s.mu.Lock()
	delete(s.pending, path)
	s.mu.Unlock()

	select {
	case s.work <- path:
	default:
		s.log.Warn().Str("file", path).Msg("queue full, dropping settled file")
	}
}

func (s *Service) route(ctx context.Context, path string) {
	oc, err := s.router.RouteFile(ctx, path, histdom.ViaWatch)
	switch {
	case perrs.IsCode(err, perrs.ErrorCodeConflict):
		s.log.Debug().Str("file", path).Msg("transcript already routed")
	case err != nil:
		s.log.Warn().Err(err).Str("file", path).Msg("route failed")
	default:
		s.log.Debug().
			Str("file", path).
			Str("project", oc.Decision.ProjectID).
			Msg("settled file routed")
	}
}

// drain stops pending settle timers on shutdown
func (s *Service) drain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for path, t := range s.pending {
		t.Stop()
		delete(s.pending, path)
	}
}
