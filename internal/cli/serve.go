package cli

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/raytone/internal/metrics"
	"github.com/matzehuels/raytone/internal/server"
	"github.com/matzehuels/raytone/pkg/clock"
	"github.com/matzehuels/raytone/pkg/config"
	"github.com/matzehuels/raytone/pkg/engine"
	"github.com/matzehuels/raytone/pkg/patch"
	"github.com/matzehuels/raytone/pkg/program"
	"github.com/matzehuels/raytone/pkg/store"
)

// serveCommand creates the serve command, which runs a patch behind the
// HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file.rt]",
		Short: "Run a patch behind the HTTP API",
		Long: `Run a patch behind the HTTP API. The control clock, the autosave timer
and the voice program watcher run alongside the server until interrupted.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeProject,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.serve(cmd.Context(), cmd, cfg, path)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :7070)")

	return cmd
}

func (c *CLI) serve(ctx context.Context, cmd *cobra.Command, cfg config.Config, path string) error {
	m := metrics.New(prometheus.DefaultRegisterer)

	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Opening "+cfg.Store.Backend+" store...")
	spin.Start()
	st, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		spin.StopWithError("Store unavailable")
		return err
	}
	spin.Stop()
	st = store.Instrument(st, cfg.Store.Backend, m)
	defer st.Close()

	eng, lib, err := c.newEngine(cfg, path, m.Hooks())
	if err != nil {
		return err
	}
	var mu sync.Mutex

	watcher, err := program.NewWatcher(lib, func(progs []patch.VoiceProgram) {
		for _, p := range progs {
			eng.Defer(func() { eng.ReloadProgram(p) })
		}
	})
	if err != nil {
		return err
	}
	defer watcher.Close()

	srv := server.New(server.Options{
		Engine:   eng,
		Lock:     &mu,
		Store:    st,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   c.Logger,
	})

	w := cmd.OutOrStdout()
	printSuccess(w, "Serving %d units on %s", eng.Registry().Len(), cfg.Server.Addr)
	printDetail(w, "programs: %s (%d)", lib.Dir(), lib.Len())
	printNextStep(w, "Graph", "curl http://localhost"+cfg.Server.Addr+"/graph.dot")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Server.Addr) })
	g.Go(func() error { return runClock(gctx, eng, &mu) })
	g.Go(func() error { return watcher.Run(gctx) })
	if interval := cfg.AutoSaveInterval(); interval > 0 {
		g.Go(func() error { return runAutoSave(gctx, eng, &mu, interval) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// runClock ticks eng under mu at the engine tempo. Tempo changes made
// between steps take effect on the next step.
func runClock(ctx context.Context, eng *engine.Engine, mu *sync.Mutex) error {
	clk := clock.New(eng.BPM())
	return clk.Run(ctx, func() {
		mu.Lock()
		defer mu.Unlock()
		eng.Tick()
		if bpm := eng.BPM(); bpm != clk.BPM() {
			clk.SetBPM(bpm)
		}
	})
}

// runAutoSave writes the autosave project every interval. Failures are
// logged by the engine and retried on the next interval.
func runAutoSave(ctx context.Context, eng *engine.Engine, mu *sync.Mutex, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			mu.Lock()
			eng.AutoSave()
			mu.Unlock()
		}
	}
}
