// Package module implements the routing ledger module
package module

import (
	"protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/services/history/domain"
	"protokoll/internal/services/history/repo"
	"protokoll/internal/services/history/service"
)

// Ports exposed by the history module
type Ports struct {
	Recorder domain.RecorderPort
	Query    domain.QueryPort
}

// Module implements the history service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new history module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.DB, repo.NewSQLite(), service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Recorder: svc,
		Query:    svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "history" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module; the HTTP surface lives in the
// api history module
func (m *Module) MountRoutes(r httpkit.Router) {}
