package main

import (
	"context"
	"flag"
	"os"

	"protokoll/internal/modkit"
	"protokoll/internal/modkit/module"
	"protokoll/internal/modkit/repokit"
	"protokoll/internal/platform/config"
	"protokoll/internal/platform/logger"
	"protokoll/internal/platform/store"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/route"
	"protokoll/internal/services/history"

	histmod "protokoll/internal/services/history/module"
	routdom "protokoll/internal/services/routing/domain"
	routingmod "protokoll/internal/services/routing/module"
	watchdom "protokoll/internal/services/watch/domain"
	watchmod "protokoll/internal/services/watch/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	var (
		fDir    = flag.String("dir", "", "inbox directory to watch (default CORE_WATCH_DIR)")
		fSettle = flag.String("settle", "", "quiet period before a file is routed, e.g. 2s")
		fSweep  = flag.Bool("sweep", true, "route the existing backlog on startup")
	)
	flag.Parse()

	// Pass CLI flags into CORE_WATCH_* so the module can read its own config
	mustSetEnv("CORE_WATCH_DIR", *fDir)
	mustSetEnv("CORE_WATCH_SETTLE", *fSettle)
	if !*fSweep {
		mustSetEnv("CORE_WATCH_SWEEP", "0")
	}

	root := config.New()
	dbCfg := root.Prefix("CORE_DB_")
	l := logger.Get()

	inboxDir := route.ExpandHome(watchmod.FromConfig(root).Dir)

	// context directories near the inbox win over the global layer
	pack, err := contextpack.Load(contextpack.Discover(inboxDir)...)
	if err != nil {
		l.Panic().Err(err).Msg("context load failed")
	}

	st, err := store.Open(context.Background(), store.Config{
		AppName: "protokoll-watch",
		SQLite: store.SQLiteConfig{
			Enabled:       true,
			Path:          route.ExpandHome(dbCfg.MayString("PATH", "~/.protokoll/protokoll.db")),
			MaxConns:      dbCfg.MayInt("MAX_CONNS", 4),
			SlowQueryMs:   dbCfg.MayInt("SLOW_MS", 250),
			LogSQL:        dbCfg.MayBool("LOG_SQL", false),
			Migrations:    history.Migrations,
			MigrationsDir: history.MigrationsDir,
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	repokit.MustGuard(context.Background(), st)

	deps := modkit.Deps{
		Cfg: root,
		DB:  st.DB,
		Log: *l,
	}

	// Build dependency modules first
	hm := histmod.New(deps)
	hports := module.MustPortsOf[histmod.Ports](hm)

	rm := routingmod.New(deps, pack, modkit.WithPorts(routdom.Ports{
		Recorder: hports.Recorder,
		Query:    hports.Query,
	}))

	wm := watchmod.New(deps, modkit.WithPorts(watchdom.Ports{
		Router: module.MustPortsOf[routingmod.Ports](rm).Router,
	}))

	// Register ports
	module.Register(hm.Name(), hm.Ports())
	module.Register(rm.Name(), rm.Ports())
	module.Register(wm.Name(), wm.Ports())

	// Kick the runner
	ports := wm.Ports().(watchmod.Ports)
	if err := ports.Runner.Run(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("watcher failed")
	}
}
