package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/route"
	"protokoll/internal/core/version"
	"protokoll/internal/modkit"
	"protokoll/internal/modkit/module"
	"protokoll/internal/platform/config"
	perrs "protokoll/internal/platform/errors"
	"protokoll/internal/platform/logger"
	"protokoll/internal/platform/store"

	"protokoll/internal/adapters/inbox"
	"protokoll/internal/services/history"
	histdom "protokoll/internal/services/history/domain"
	histmod "protokoll/internal/services/history/module"
	routdom "protokoll/internal/services/routing/domain"
	routingmod "protokoll/internal/services/routing/module"
)

var (
	contextDir string
	dbPath     string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "protokoll",
		Short:        "Route voice note transcripts to project folders",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// pretty console output on stderr so piped stdout stays clean
			opt := logger.FromEnv()
			opt.Level = logLevel
			opt.Format = "console"
			opt.Writer = os.Stderr
			logger.Init(opt)
		},
	}

	rootCmd.PersistentFlags().StringVar(&contextDir, "context-dir", "", "extra context directory applied over discovered layers")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "ledger database path (default CORE_DB_PATH or ~/.protokoll/protokoll.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log verbosity (trace, debug, info, warn, error)")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(contextCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadPack layers discovered context directories, with the --context-dir
// flag applied last so it wins over everything on disk
func loadPack(start string) (*contextpack.Pack, error) {
	dirs := contextpack.Discover(start)
	if contextDir != "" {
		dirs = append(dirs, route.ExpandHome(contextDir))
	}
	return contextpack.Load(dirs...)
}

func openLedger(ctx context.Context) (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = config.New().Prefix("CORE_DB_").MayString("PATH", "~/.protokoll/protokoll.db")
	}
	path = route.ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.Open(ctx, store.Config{
		AppName: "protokoll",
		SQLite: store.SQLiteConfig{
			Enabled:       true,
			Path:          path,
			MaxConns:      2,
			Migrations:    history.Migrations,
			MigrationsDir: history.MigrationsDir,
		},
	})
}

// wireRouting builds the worker modules the CLI drives directly
func wireRouting(pack *contextpack.Pack, st *store.Store) routingmod.Ports {
	deps := modkit.Deps{Cfg: config.New(), DB: st.DB, Log: *logger.Get()}

	hm := histmod.New(deps)
	hports := module.MustPortsOf[histmod.Ports](hm)

	rm := routingmod.New(deps, pack, modkit.WithPorts(routdom.Ports{
		Recorder: hports.Recorder,
		Query:    hports.Query,
	}))

	module.Register(hm.Name(), hm.Ports())
	module.Register(rm.Name(), rm.Ports())
	return module.MustPortsOf[routingmod.Ports](rm)
}

func historyPorts(st *store.Store) histmod.Ports {
	deps := modkit.Deps{Cfg: config.New(), DB: st.DB, Log: *logger.Get()}
	hm := histmod.New(deps)
	module.Register(hm.Name(), hm.Ports())
	return module.MustPortsOf[histmod.Ports](hm)
}

func routeCmd() *cobra.Command {
	var (
		dryRun bool
		via    string
	)

	cmd := &cobra.Command{
		Use:   "route <file|dir>",
		Short: "Route a transcript, or every transcript in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			v := histdom.Via(via)
			if !v.Valid() {
				return fmt.Errorf("unknown via %q (cli, api, watch, mcp)", via)
			}

			info, err := os.Stat(target)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			pack, err := loadPack(target)
			if err != nil {
				return err
			}
			st, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			ports := wireRouting(pack, st)

			if info.IsDir() {
				rep, err := ports.Router.RunDir(ctx, target, v)
				if err != nil {
					return err
				}
				printBatch(rep)
				if rep.Failed > 0 {
					return fmt.Errorf("%d of %d files failed", rep.Failed, rep.Total)
				}
				return nil
			}

			if dryRun {
				n, err := inbox.Read(target)
				if err != nil {
					return err
				}
				oc, err := ports.Router.Preview(ctx, n)
				if err != nil {
					return err
				}
				printDecision(oc, true)
				return nil
			}

			oc, err := ports.Router.RouteFile(ctx, target, v)
			if perrs.IsCode(err, perrs.ErrorCodeConflict) {
				fmt.Printf("Skipped: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}
			printDecision(oc, false)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "classify only, write nothing")
	cmd.Flags().StringVar(&via, "via", "cli", "surface recorded in the ledger (cli, api, watch, mcp)")
	return cmd
}

func printDecision(oc routdom.Outcome, dry bool) {
	d := oc.Decision
	if d.ProjectID != "" {
		fmt.Printf("Project:    %s\n", d.ProjectID)
	} else {
		fmt.Println("Project:    (default route)")
	}
	fmt.Printf("Confidence: %.2f\n", d.Confidence)
	fmt.Printf("Reasoning:  %s\n", d.Reasoning)
	for _, sg := range d.Signals {
		fmt.Printf("  signal: %-18s %q (%.2f)\n", sg.Type, sg.Value, sg.Weight)
	}
	for _, alt := range d.AlternateMatches {
		fmt.Printf("  also considered: %s (%.2f)\n", alt.ProjectID, alt.Confidence)
	}
	if dry {
		fmt.Printf("Would write: %s\n", oc.OutputPath)
	} else {
		fmt.Printf("Wrote:      %s\n", oc.WrittenPath)
	}
}

func printBatch(rep routdom.BatchReport) {
	for _, it := range rep.Items {
		switch {
		case it.Err != "":
			fmt.Printf("  %-40s ERROR %s\n", filepath.Base(it.File), it.Err)
		case it.Duplicate:
			fmt.Printf("  %-40s duplicate, skipped\n", filepath.Base(it.File))
		case it.ProjectID != "":
			fmt.Printf("  %-40s -> %s (%.2f)\n", filepath.Base(it.File), it.ProjectID, it.Confidence)
		default:
			fmt.Printf("  %-40s -> default route\n", filepath.Base(it.File))
		}
	}
	fmt.Printf("%d files: %d routed, %d defaulted, %d duplicates, %d failed\n",
		rep.Total, rep.Routed, rep.Defaulted, rep.Duplicates, rep.Failed)
}

func historyCmd() *cobra.Command {
	var (
		project string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent routing decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			q := historyPorts(st).Query
			var rows []histdom.Entry
			if project != "" {
				rows, err = q.ByProject(ctx, project, limit)
			} else {
				rows, err = q.Recent(ctx, limit)
			}
			if err != nil {
				return err
			}

			if len(rows) == 0 {
				fmt.Println("No routing decisions recorded yet.")
				return nil
			}
			for _, e := range rows {
				name := e.ProjectID
				if name == "" {
					name = "(default)"
				}
				fmt.Printf("%s  %-24s %.2f  %s  via %s\n",
					e.OccurredAt.Local().Format("2006-01-02 15:04"),
					name, e.Confidence, e.OutputPath, e.DecidedVia)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "only decisions routed to this project id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show")
	cmd.AddCommand(historyPruneCmd())
	return cmd
}

func historyPruneCmd() *cobra.Command {
	var before string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete ledger entries older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cutoff, err := parseCutoff(before)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			n, err := historyPorts(st).Query.PruneBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			fmt.Printf("Pruned %d entries older than %s\n", n, cutoff.Local().Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "cutoff date, YYYY-MM-DD or RFC3339 (required)")
	_ = cmd.MarkFlagRequired("before")
	return cmd
}

// parseCutoff accepts a plain date or a full RFC3339 timestamp
func parseCutoff(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q, want YYYY-MM-DD or RFC3339", raw)
}

func contextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Inspect the routing context",
	}
	cmd.AddCommand(contextShowCmd())
	cmd.AddCommand(contextVetCmd())
	return cmd
}

func contextShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the loaded context and its routes",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			pack, err := loadPack(".")
			if err != nil {
				return err
			}

			sum := pack.Summarize()
			fmt.Printf("Context: %d people, %d companies, %d projects\n", sum.People, sum.Companies, sum.Projects)
			if len(sum.Sources) > 0 {
				fmt.Println("Sources:")
				for _, s := range sum.Sources {
					fmt.Printf("  %s\n", s)
				}
			}

			cfg := pack.Routing()
			if len(cfg.Projects) > 0 {
				fmt.Println("Routes:")
				for _, pr := range cfg.Projects {
					state := "active"
					if !pr.IsActive() {
						state = "inactive"
					}
					fmt.Printf("  %-24s %-32s (%s)\n", pr.ProjectID, pr.Destination.Path, state)
				}
			}
			fmt.Printf("Default: %s\n", cfg.Default.Path)
			return nil
		},
	}
}

func contextVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Check the context for broken references and duplicate rules",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			pack, err := loadPack(".")
			if err != nil {
				return err
			}

			problems := pack.Lint()
			if len(problems) == 0 {
				fmt.Println("Context is clean.")
				return nil
			}
			for _, p := range problems {
				fmt.Printf("  %s\n", p)
			}
			return fmt.Errorf("%d problems found", len(problems))
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			bi := version.Info()
			fmt.Printf("%s %s (%s, built %s)\n", bi.Service, bi.Version, bi.Commit, bi.Date)
		},
	}
}
