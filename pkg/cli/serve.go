package cli

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/navmenu/pkg/logger"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/server"
	"github.com/mchmarny/navmenu/pkg/shell"
)

type serveOptions struct {
	port        int
	menuPath    string
	dbPath      string
	watch       bool
	production  bool
	accordion   bool
	corsOrigins []string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the navigation shell API",
		Long: `Load the menu file and serve the navigation shell over HTTP.

Endpoints:
  GET    /api/menu               menu tree, current path and last result
  POST   /api/navigate           settle navigation to {"path": "..."}
  POST   /api/click              click an item by id, label or link
  GET    /api/search?q=          filter the tree by label
  GET    /api/favorites          list favorites
  POST   /api/favorites/toggle   toggle {"link": "..."}
  DELETE /api/favorites[/{i}]    clear all or remove one
  GET    /metrics, /healthz`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.port, "port", "p", server.DefaultPort, "port to listen on")
	f.StringVarP(&opts.menuPath, "menu", "m", "", "menu file (YAML or JSON)")
	f.StringVar(&opts.dbPath, "favorites-db", "", "SQLite favorites database (in memory when empty)")
	f.BoolVar(&opts.watch, "watch", false, "reload the menu when the file changes")
	f.BoolVar(&opts.production, "production", false, "strip the deploy root from paths")
	f.BoolVar(&opts.accordion, "accordion", false, "close other branches when a route resolves")
	f.StringSliceVar(&opts.corsOrigins, "cors-origin", nil, "allowed CORS origin (repeatable)")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if f.Changed("menu") {
		cfg.Menu.Path = opts.menuPath
	}
	if f.Changed("favorites-db") {
		cfg.Favorites.DBPath = opts.dbPath
	}
	if f.Changed("watch") {
		cfg.Menu.Watch = opts.watch
	}
	if f.Changed("production") {
		cfg.Activation.Production = opts.production
	}
	if f.Changed("accordion") {
		cfg.Activation.Accordion = opts.accordion
	}
	if f.Changed("cors-origin") {
		cfg.Server.CORSOrigins = opts.corsOrigins
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Logging.Format, appName, root.build.Version, cfg.Logging.Level)
	slog.SetDefault(log)
	slog.Info("starting navmenu",
		"version", root.build.Version,
		"commit", root.build.Commit,
		"date", root.build.Date)

	m, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Favorites.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	sh, err := shell.New(m, store,
		shell.WithLogger(log),
		shell.WithActivation(activationOptions(cfg, reg)...))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := sh.Visit(ctx, cfg.Menu.StartPath); err != nil {
		return fmt.Errorf("failed to settle start path: %w", err)
	}

	srvOpts := []server.Option{
		server.WithPort(cfg.Server.Port),
		server.WithRegistry(reg),
		server.WithErrorLog(logger.NewLogLogger(slog.LevelError)),
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		srvOpts = append(srvOpts, server.WithCORS(cfg.Server.CORSOrigins...))
	}
	if tls := cfg.Server.TLS(); tls != nil {
		srvOpts = append(srvOpts, server.WithTLS(*tls))
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sh.Run(gCtx, srvOpts...)
	})

	if cfg.Menu.Watch {
		g.Go(func() error {
			return menu.Watch(gCtx, cfg.Menu.Path, menu.DefaultReloadDebounce, func(next *menu.Menu) {
				if err := sh.Replace(gCtx, next); err != nil && gCtx.Err() == nil {
					slog.Error("failed to apply reloaded menu", "error", err)
				}
			})
		})
	}

	return g.Wait()
}
