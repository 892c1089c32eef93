// Package cli implements the navmenu command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mchmarny/navmenu/pkg/activation"
	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/favorites"
	"github.com/mchmarny/navmenu/pkg/metric"
)

const appName = "navmenu"

// BuildInfo is set at build time via -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootOptions struct {
	build      BuildInfo
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the navmenu command tree.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &rootOptions{build: build}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Navigation menu activation engine",
		Long: `navmenu keeps a hierarchical navigation menu in sync with the current
location: it expands the branch owning the route, highlights one link and
keeps a favorites overlay without disturbing the canonical tree.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format: json or text")

	cmd.AddCommand(
		newServeCommand(opts),
		newResolveCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(build BuildInfo) int {
	if err := NewRootCommand(build).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies the persistent flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	return cfg, nil
}

// activationOptions maps the configuration onto orchestrator options.
func activationOptions(cfg *config.Config, reg prometheus.Registerer) []activation.Option {
	opts := []activation.Option{
		activation.WithPathTransform(cfg.PathTransform()),
		activation.WithRules(cfg.Activation.LegacyRules...),
	}
	if cfg.Activation.Accordion {
		opts = append(opts, activation.WithAccordion())
	}
	if reg != nil {
		opts = append(opts, activation.WithMetrics(metric.NewRecorder(reg)))
	}
	return opts
}

// openStore opens the SQLite favorites store, or a memory store when no
// database path is configured.
func openStore(path string) (favorites.Store, error) {
	if path == "" {
		return favorites.NewMemory(), nil
	}
	s, err := favorites.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open favorites store: %w", err)
	}
	return s, nil
}
