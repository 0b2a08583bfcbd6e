// Package server exposes a running engine over HTTP.
//
// Every handler runs under the engine lock, the same lock the clock loop
// holds while ticking, so requests and ticks never interleave.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/raytone/pkg/engine"
	"github.com/matzehuels/raytone/pkg/store"
)

// Options configures a Server.
type Options struct {
	Engine *engine.Engine

	// Lock guards Engine. It must be the lock the clock loop ticks under.
	Lock *sync.Mutex

	// Store backs the snapshot routes. Defaults to a NullStore.
	Store store.Store

	// Gatherer serves /metrics. Defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server routes HTTP requests to an engine.
type Server struct {
	eng    *engine.Engine
	mu     *sync.Mutex
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Lock == nil {
		opts.Lock = &sync.Mutex{}
	}
	if opts.Store == nil {
		opts.Store = store.NewNullStore()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	s := &Server{
		eng:    opts.Engine,
		mu:     opts.Lock,
		store:  opts.Store,
		logger: opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/units", s.locked(s.listUnits))
	r.Post("/units", s.locked(s.spawnUnit))
	r.Delete("/units/{kind}/{id}", s.locked(s.destroyUnit))
	r.Post("/units/{kind}/{id}/move", s.locked(s.moveUnit))
	r.Post("/connections", s.locked(s.connect))
	r.Delete("/connections/{kind}/{id}/{socket}", s.locked(s.disconnect))
	r.Post("/undo", s.locked(s.undo))
	r.Post("/redo", s.locked(s.redo))
	r.Post("/step", s.locked(s.step))
	r.Post("/reset", s.locked(s.reset))
	r.Get("/graph.dot", s.locked(s.graph))
	r.Post("/snapshots", s.locked(s.publish))
	r.Post("/snapshots/{id}/paste", s.locked(s.paste))
	r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) locked(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, r)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}
