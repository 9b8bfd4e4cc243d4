// @title         Protokoll API
// @version       0.1.0
// @description   Route voice note transcripts and browse the routing ledger

package main

import (
	"context"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/route"
	"protokoll/internal/modkit/repokit"
	"protokoll/internal/platform/config"
	"protokoll/internal/platform/logger"
	phttp "protokoll/internal/platform/net/http"
	"protokoll/internal/platform/store"

	"protokoll/internal/services/api"
	"protokoll/internal/services/history"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	dbCfg := root.Prefix("CORE_DB_")

	// bring up logging early
	l := logger.Get()

	// load the routing context, most general directory first
	pack, err := contextpack.Load(contextpack.Discover(".")...)
	if err != nil {
		l.Panic().Err(err).Msg("context load failed")
	}

	// open the platform store (sqlite ledger)
	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "protokoll-api",
			SQLite: store.SQLiteConfig{
				Enabled:       true,
				Path:          route.ExpandHome(dbCfg.MayString("PATH", "~/.protokoll/protokoll.db")),
				MaxConns:      dbCfg.MayInt("MAX_CONNS", 4),
				SlowQueryMs:   dbCfg.MayInt("SLOW_MS", 250),
				LogSQL:        dbCfg.MayBool("LOG_SQL", false),
				Migrations:    history.Migrations,
				MigrationsDir: history.MigrationsDir,
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// verify backends before serving traffic
	repokit.MustGuard(context.Background(), st)

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			Pack:           pack,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
