// Package module wires history into the API using modkit
package module

import (
	"net/http"

	modkit "protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	str "protokoll/internal/platform/strings"

	hhttp "protokoll/internal/services/api/history/http"
	histdom "protokoll/internal/services/history/domain"
)

// Module implements the history API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	query histdom.QueryPort
}

// Ports declares the injected worker port this API module requires
type Ports struct {
	Query histdom.QueryPort
}

// New constructs the history API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("history-api"),
		modkit.WithPrefix("/history"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Query == nil {
		panic("history API module requires Query port (from services/history)")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		query:     injected.Query,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		hhttp.Register(r, m.query)
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

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
