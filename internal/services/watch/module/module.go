// Package module implements the watch module
package module

import (
	"net/http"

	"protokoll/internal/core/route"
	"protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/services/watch/domain"
	"protokoll/internal/services/watch/service"
)

// Ports exposed by the watch module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the watch module.
// The routing port arrives via WithPorts(watch/domain.Ports)
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("watch"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("watch module: expected WithPorts(watch/domain.Ports)")
	}
	if ports.Router == nil {
		panic("watch module: Ports missing Router")
	}

	cfg := FromConfig(deps.Cfg)
	svc := service.New(ports.Router, service.Config{
		Dir:     route.ExpandHome(cfg.Dir),
		Settle:  cfg.Settle,
		Sweep:   cfg.Sweep,
		Backlog: cfg.Backlog,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "watch" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ httpkit.Router) {}
