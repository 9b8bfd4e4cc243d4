// Package api provides the HTTP API for the application
package api

import (
	"protokoll/internal/core/contextpack"
	"protokoll/internal/platform/config"
	"protokoll/internal/platform/logger"
	phttp "protokoll/internal/platform/net/http"
	"protokoll/internal/platform/store"

	"protokoll/internal/modkit"
	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/modkit/module"
	"protokoll/internal/modkit/swaggerkit"

	contextmod "protokoll/internal/services/api/contextinfo/module"
	apihistory "protokoll/internal/services/api/history/module"
	metamod "protokoll/internal/services/api/meta/module"
	apirouting "protokoll/internal/services/api/routing/module"

	routdom "protokoll/internal/services/routing/domain"

	// Worker modules (own the ledger and router ports)
	workerhistory "protokoll/internal/services/history/module"
	workerrouting "protokoll/internal/services/routing/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Pack           *contextpack.Pack
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		DB:  opt.Store.DB,
	}

	// Construct the WORKER history module first, it owns the ledger ports
	workerHistory := workerhistory.New(deps)
	hports := module.MustPortsOf[workerhistory.Ports](workerHistory)

	// The worker routing module routes transcripts end to end and records into the ledger
	workerRouting := workerrouting.New(deps, opt.Pack, modkit.WithPorts(routdom.Ports{
		Recorder: hports.Recorder,
		Query:    hports.Query,
	}))
	rports := module.MustPortsOf[workerrouting.Ports](workerRouting)

	// Inject the worker ports into the API modules
	apiRouting := apirouting.New(
		deps,
		modkit.WithPorts(apirouting.Ports{
			Router: rports.Router,
		}),
	)
	apiHistory := apihistory.New(
		deps,
		modkit.WithPorts(apihistory.Ports{
			Query: hports.Query,
		}),
	)

	mods := []module.Module{
		metamod.New(deps, opt.Pack),
		workerHistory, // include workers so their ports are registered
		workerRouting,
		apiRouting, // API modules that depend on the worker ports
		apiHistory,
		contextmod.New(deps, opt.Pack),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
