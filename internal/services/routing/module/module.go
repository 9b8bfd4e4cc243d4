// Package module implements the routing module
package module

import (
	"net/http"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/services/routing/domain"
	"protokoll/internal/services/routing/service"
)

// Ports exposed by the routing module
type Ports struct {
	Router domain.RouterPort
	Pack   *contextpack.Pack
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the routing module over a loaded context pack.
// The ledger ports arrive via WithPorts(routing/domain.Ports)
func New(deps modkit.Deps, pack *contextpack.Pack, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("routing"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("routing module: expected WithPorts(routing/domain.Ports)")
	}
	if ports.Recorder == nil || ports.Query == nil {
		panic("routing module: Ports missing Recorder or Query")
	}
	if pack == nil {
		panic("routing module: nil context pack")
	}

	cfg := FromConfig(deps.Cfg)
	svc := service.New(pack, ports.Recorder, ports.Query, service.Config{
		Workers: cfg.Workers,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Router: svc, Pack: pack}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "routing" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// Middlewares satisfies modkit.Module
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return nil }

// MountRoutes satisfies modkit.Module; the HTTP surface lives in the api
// routing module
func (m *Module) MountRoutes(_ httpkit.Router) {}
