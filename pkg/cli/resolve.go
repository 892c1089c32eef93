package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mchmarny/navmenu/pkg/activation"
	"github.com/mchmarny/navmenu/pkg/favorites"
	"github.com/mchmarny/navmenu/pkg/logger"
	"github.com/mchmarny/navmenu/pkg/menu"
	"github.com/mchmarny/navmenu/pkg/shell"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	matchedStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("14"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle   = lipgloss.NewStyle().Underline(true)
)

type resolveOptions struct {
	menuPath   string
	path       string
	favorites  []string
	production bool
	accordion  bool
	all        bool
}

func newResolveCommand(root *rootOptions) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a location against a menu file and print the result",
		Long: `Run one activation pass for --path and print the menu as it would be
rendered: expanded branches are open, the highlighted link is marked with
"●" and the item owning the route through its active routes with "◆".`,
		Example: `  navmenu resolve -m menu.yaml --path /app/work-orders/edit/42
  navmenu resolve -m menu.yaml --path /app/jobs/list --favorite jobs/list`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.menuPath, "menu", "m", "", "menu file (YAML or JSON)")
	f.StringVar(&opts.path, "path", "", "location to resolve, query string included")
	f.StringSliceVar(&opts.favorites, "favorite", nil, "link to add to the favorites overlay (repeatable)")
	f.BoolVar(&opts.production, "production", false, "strip the deploy root from paths")
	f.BoolVar(&opts.accordion, "accordion", false, "close other branches first")
	f.BoolVar(&opts.all, "all", false, "print collapsed branches too")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func runResolve(cmd *cobra.Command, root *rootOptions, opts *resolveOptions) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("menu") {
		cfg.Menu.Path = opts.menuPath
	}
	if f.Changed("production") {
		cfg.Activation.Production = opts.production
	}
	if f.Changed("accordion") {
		cfg.Activation.Accordion = opts.accordion
	}

	// Diagnostics go to stderr, the rendered tree to stdout.
	level := cfg.Logging.Level
	if root.logLevel == "" && os.Getenv(logger.EnvVarLogLevel) == "" {
		level = "warn"
	}
	log := logger.SetDefault(appName, root.build.Version, level)

	m, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		return err
	}

	sh, err := shell.New(m, favorites.NewMemory(),
		shell.WithLogger(log),
		shell.WithActivation(activationOptions(cfg, nil)...))
	if err != nil {
		return err
	}

	for _, link := range opts.favorites {
		if _, err := sh.ToggleFavorite(link); err != nil {
			return err
		}
	}

	res, err := sh.Visit(cmd.Context(), opts.path)
	if err != nil {
		return err
	}

	renderResult(cmd.OutOrStdout(), m, res, opts.all)
	return nil
}

// renderResult prints the menu tree followed by a summary of the pass.
func renderResult(w io.Writer, m *menu.Menu, res *activation.Result, all bool) {
	fmt.Fprintln(w, headerStyle.Render(m.Title))

	var active *menu.Item
	if res.Link != nil {
		active = res.Link.Item
	}
	renderItems(w, m, m.Items, 0, active, res.Matched, all)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "path:    %s\n", res.Path)
	if !res.Highlighted() {
		fmt.Fprintln(w, "link:    none")
		return
	}
	fmt.Fprintf(w, "link:    %s\n", activeStyle.Render(res.Link.Path))
	fmt.Fprintf(w, "rule:    %s\n", res.Rule)
	if len(res.Trail) > 0 {
		labels := make([]string, 0, len(res.Trail))
		for _, item := range res.Trail {
			labels = append(labels, item.Label)
		}
		fmt.Fprintf(w, "trail:   %s\n", strings.Join(labels, " › "))
	}
}

func renderItems(w io.Writer, m *menu.Menu, items []*menu.Item, depth int, active, matched *menu.Item, all bool) {
	indent := strings.Repeat("  ", depth)
	for _, item := range items {
		marker := " "
		switch {
		case item == active:
			marker = "●"
		case item == matched:
			marker = "◆"
		}

		branch := " "
		if item.HasItems() {
			branch = "▾"
			if item.Collapsed {
				branch = "▸"
			}
		}

		label := item.Label
		switch {
		case item == active:
			label = activeStyle.Render(label)
		case item == matched:
			label = matchedStyle.Render(label)
		case item.Title:
			label = titleStyle.Render(label)
		}

		line := fmt.Sprintf("%s%s %s %s", indent, marker, branch, label)
		if item.Link != "" {
			line += " " + linkStyle.Render(m.Resolve(item))
		}
		fmt.Fprintln(w, line)

		if item.HasItems() && (all || !item.Collapsed) {
			renderItems(w, m, item.Items, depth+1, active, matched, all)
		}
	}
}
