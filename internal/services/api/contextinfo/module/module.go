// Package module wires the routing context read side into the API using modkit
package module

import (
	"net/http"

	modkit "protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	str "protokoll/internal/platform/strings"

	"protokoll/internal/core/contextpack"
	chttp "protokoll/internal/services/api/contextinfo/http"
)

// Module implements the context API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	pack *contextpack.Pack
}

// New constructs the context API module
func New(deps modkit.Deps, pack *contextpack.Pack, opts ...modkit.Option) modkit.Module {
	if pack == nil {
		panic("context API module requires a non nil context pack")
	}
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("context"),
		modkit.WithPrefix("/context"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		pack:      pack,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		chttp.Register(r, m.pack)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }

// Ports returns the module ports (none, the read side has no cross wiring)
func (m *Module) Ports() any { return nil }
