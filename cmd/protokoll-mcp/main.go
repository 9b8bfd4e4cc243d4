package main

import (
	"context"
	"os"

	"protokoll/internal/modkit"
	"protokoll/internal/modkit/module"
	"protokoll/internal/modkit/repokit"
	"protokoll/internal/platform/config"
	"protokoll/internal/platform/logger"
	"protokoll/internal/platform/store"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/route"
	"protokoll/internal/mcp"
	"protokoll/internal/services/history"

	histmod "protokoll/internal/services/history/module"
	routdom "protokoll/internal/services/routing/domain"
	routingmod "protokoll/internal/services/routing/module"
)

func main() {
	// stdout carries the MCP protocol, push all logging to stderr
	opt := logger.FromEnv()
	opt.Writer = os.Stderr
	logger.Init(opt)
	l := logger.Get()

	root := config.New()
	dbCfg := root.Prefix("CORE_DB_")

	pack, err := contextpack.Load(contextpack.Discover(".")...)
	if err != nil {
		l.Panic().Err(err).Msg("context load failed")
	}

	st, err := store.Open(context.Background(), store.Config{
		AppName: "protokoll-mcp",
		SQLite: store.SQLiteConfig{
			Enabled:       true,
			Path:          route.ExpandHome(dbCfg.MayString("PATH", "~/.protokoll/protokoll.db")),
			MaxConns:      dbCfg.MayInt("MAX_CONNS", 2),
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

	hm := histmod.New(deps)
	hports := module.MustPortsOf[histmod.Ports](hm)

	rm := routingmod.New(deps, pack, modkit.WithPorts(routdom.Ports{
		Recorder: hports.Recorder,
		Query:    hports.Query,
	}))
	rports := module.MustPortsOf[routingmod.Ports](rm)

	module.Register(hm.Name(), hm.Ports())
	module.Register(rm.Name(), rm.Ports())

	srv := mcp.NewServer(mcp.Config{}, rports.Router, hports.Query, pack)
	if err := srv.Run(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("mcp server stopped")
	}
}
