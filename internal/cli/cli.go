// Package cli implements the orbitdash command-line interface.
//
// The commands share one loading path: the configuration file is read and
// validated, the dataset is opened and normalized, and a
// [dashboard.Coordinator] is built over it. They differ in what they attach
// to the coordinator:
//
//   - render: writes the charts of one frame to files
//   - facets: lists the labels of a dimension with their counts
//   - tui: an interactive terminal dashboard
//   - serve: the HTTP dashboard, one coordinator per browser session
//   - cache: manages the summary response cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// to name the TOML file.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/pkg/buildinfo"
	"github.com/matzehuels/orbitdash/pkg/cache"
	"github.com/matzehuels/orbitdash/pkg/config"
	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/dataset"
	"github.com/matzehuels/orbitdash/pkg/errors"
	"github.com/matzehuels/orbitdash/pkg/facet"
	"github.com/matzehuels/orbitdash/pkg/summary"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "orbitdash"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Orbitdash explores satellites in low Earth orbit",
		Long:         `Orbitdash is a filterable dashboard over a catalog of objects in low Earth orbit: launches per year, status breakdown and payload cohorts, as files, in the terminal or in the browser.`,
		Version:      buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+")")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.facetsCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Loading
// =============================================================================

// loadConfig reads and validates the configuration. A non-empty datasetPath
// overrides dataset.path.
func (c *CLI) loadConfig(datasetPath string) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if datasetPath != "" {
		cfg.Dataset.Path = datasetPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("config loaded", "path", cfg.Path)
	}
	return cfg, nil
}

// openDataset loads and normalizes the configured CSV and indexes it.
func (c *CLI) openDataset(ctx context.Context, cfg *config.Config) (*dataset.Dataset, *facet.Index, error) {
	if err := errors.ValidatePath(cfg.Dataset.Path); err != nil {
		return nil, nil, err
	}
	n, err := cfg.Normalizer()
	if err != nil {
		return nil, nil, err
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	ds, err := dataset.Open(ctx, cfg.Dataset.Path, cfg.Columns(), n)
	if err != nil {
		return nil, nil, err
	}
	idx := facet.Build(ds.Records)
	prog.done("Loaded " + ds.Path)
	logger.Debug("dataset", "records", ds.Len(), "dropped", ds.Dropped, "years", len(ds.Years))
	return ds, idx, nil
}

// newCache opens the configured response cache backend.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis")
		}
		return rc, nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("file cache unavailable, continuing without", "dir", cfg.Cache.Dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// newFetcher returns the summary source for focused years.
func (c *CLI) newFetcher(cfg *config.Config, backend cache.Cache) summary.Fetcher {
	if !cfg.Summary.Enabled {
		return summary.Disabled{}
	}
	return summary.NewClient(backend, summary.Options{
		BaseURL: cfg.Summary.BaseURL,
		TTL:     cfg.Summary.TTL.Duration,
		Timeout: cfg.Summary.Timeout.Duration,
		Logger:  c.Logger,
	})
}

// =============================================================================
// Selection Flags
// =============================================================================

// selectionFlags are the dashboard flags shared by render, tui and facets.
// Flags that are set override the configuration.
type selectionFlags struct {
	dataset   string
	countries []string
	operators []string
	types     []string
	mode      string
	width     int
	focus     int
	setFocus  func() bool
}

func (f *selectionFlags) register(cmd *cobra.Command, withView bool) {
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "dataset CSV (overrides config)")
	cmd.Flags().StringSliceVar(&f.countries, "country", nil, "select countries (repeatable or comma-separated)")
	cmd.Flags().StringSliceVar(&f.operators, "operator", nil, "select operators")
	cmd.Flags().StringSliceVar(&f.types, "type", nil, "select object types (PAYLOAD, DEBRIS, ROCKET_BODY, UNKNOWN)")
	if !withView {
		return
	}
	cmd.Flags().StringVar(&f.mode, "mode", "", "timeline mode: yearly or cumulative (default from config)")
	cmd.Flags().IntVar(&f.width, "width", 0, "chart width in pixels (default from config)")
	cmd.Flags().IntVar(&f.focus, "focus", 0, "focus a year")
	f.setFocus = func() bool { return cmd.Flags().Changed("focus") }
}

// defaults merges the configured default selection with the flags.
func (f *selectionFlags) defaults(cfg *config.Config) (map[facet.Dimension][]string, error) {
	out, err := cfg.Defaults()
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = make(map[facet.Dimension][]string)
	}
	for dim, labels := range map[facet.Dimension][]string{
		facet.Country:    f.countries,
		facet.Operator:   f.operators,
		facet.ObjectType: f.types,
	} {
		if len(labels) > 0 {
			out[dim] = labels
		}
	}
	return out, nil
}

// options turns configuration and flags into coordinator options.
func (f *selectionFlags) options(cfg *config.Config) ([]dashboard.Option, error) {
	defaults, err := f.defaults(cfg)
	if err != nil {
		return nil, err
	}
	modeName := cfg.Dashboard.Mode
	if f.mode != "" {
		modeName = f.mode
	}
	mode, err := dashboard.ParseMode(modeName)
	if err != nil {
		return nil, err
	}
	width := cfg.Dashboard.Width
	if f.width > 0 {
		width = f.width
	}
	return []dashboard.Option{
		dashboard.WithDefaults(defaults),
		dashboard.WithMode(mode),
		dashboard.WithWidth(width),
		dashboard.WithTopK(cfg.Dashboard.TopK),
	}, nil
}

// focusYear returns the --focus year, if given.
func (f *selectionFlags) focusYear() (int, bool) {
	if f.setFocus == nil || !f.setFocus() {
		return 0, false
	}
	return f.focus, true
}
