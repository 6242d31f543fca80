package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbitdash/internal/server"
	"github.com/matzehuels/orbitdash/pkg/dashboard"
	"github.com/matzehuels/orbitdash/pkg/observability/prom"
	"github.com/matzehuels/orbitdash/pkg/render/chart"
	"github.com/matzehuels/orbitdash/pkg/session"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	dataset string
	addr    string
	metrics bool
	sweep   time.Duration
}

// serveCommand creates the serve command, which runs the HTTP dashboard.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{metrics: true, sweep: time.Minute}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard over HTTP.

Each browser session gets its own dashboard, kept in memory until it has
been idle for server.session_ttl. At most server.max_sessions are kept;
the least recently used one is dropped first. Prometheus metrics are exposed on
/metrics unless --metrics=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "dataset CSV (overrides config)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose /metrics")
	cmd.Flags().DurationVar(&opts.sweep, "sweep", opts.sweep, "how often expired sessions are removed")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg, err := c.loadConfig(opts.dataset)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	ds, idx, err := c.openDataset(ctx, cfg)
	if err != nil {
		return err
	}
	var flags selectionFlags
	dashOpts, err := flags.options(cfg)
	if err != nil {
		return err
	}

	var (
		metrics  *prom.Metrics
		gatherer prometheus.Gatherer
	)
	if opts.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = prom.New(reg)
		metrics.Install()
		gatherer = reg
	}

	backend, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()
	fetcher := c.newFetcher(cfg, backend)

	// Fail at startup on defaults naming unknown labels.
	probe, err := dashboard.New(ds, idx, dashOpts...)
	if err != nil {
		return err
	}
	probe.Close()

	store := session.NewStore(cfg.Server.SessionTTL.Duration, func(ctx context.Context) (*session.Session, error) {
		canvas := chart.NewCanvas(c.Logger)
		all := append([]dashboard.Option{
			dashboard.WithLogger(c.Logger),
			dashboard.WithFetcher(fetcher),
			dashboard.WithSinks(canvas),
		}, dashOpts...)
		d, err := dashboard.New(ds, idx, all...)
		if err != nil {
			return nil, err
		}
		return &session.Session{Dashboard: d, Canvas: canvas}, nil
	}, session.WithLimit(cfg.Server.MaxSessions))

	srv := server.New(store, server.Options{
		Logger:        c.Logger,
		Metrics:       metrics,
		Gatherer:      gatherer,
		SweepInterval: opts.sweep,
	})

	printSuccess("Serving %s records", StyleNumber.Render(fmt.Sprint(ds.Len())))
	printKeyValue("Dashboard", StyleLink.Render(displayURL(addr)))
	if gatherer != nil {
		printKeyValue("Metrics", StyleLink.Render(displayURL(addr)+"metrics"))
	}

	err = srv.ListenAndServe(ctx, addr)
	if errors.Is(ctx.Err(), context.Canceled) && err == nil {
		return ctx.Err()
	}
	return err
}

// displayURL turns a listen address into a browsable URL.
func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}
