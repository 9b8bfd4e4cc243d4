// Package module wires routing into the API using modkit
package module

import (
	"net/http"

	modkit "protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	str "protokoll/internal/platform/strings"

	rhttp "protokoll/internal/services/api/routing/http"
	routdom "protokoll/internal/services/routing/domain"
)

// Module implements the routing API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	router routdom.RouterPort
}

// Ports declares the injected worker port this API module requires
type Ports struct {
	Router routdom.RouterPort
}

// New constructs the routing API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("routings"),
		modkit.WithPrefix("/routings"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Router == nil {
		panic("routing API module requires Router port (from services/routing)")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		router:    injected.Router,
	}
	m.ports = injected

	external := b.Register
	m.register = func(r httpkit.Router) {
		rhttp.Register(r, m.router)
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
