// Package server exposes the Voronoi renderer over HTTP.
//
// Routes:
//
//	GET  /                  the HTML form
//	GET  /generate_diagram  the HTML form
//	POST /generate_diagram  render and return a PNG
//	GET  /healthz           liveness check
//	GET  /metrics           Prometheus exposition (when enabled)
//
// Each rendered image is written to a uniquely named temporary file, served
// from there and removed before the handler returns.
package server

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/voronoi/pkg/pipeline"
)

// Config controls the listener, timeouts and temp file location.
type Config struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	TempDir         string        `toml:"temp_dir" yaml:"temp_dir"`
	MaxFormBytes    int64         `toml:"max_form_bytes" yaml:"max_form_bytes"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		Addr:            ":5000",
		MaxFormBytes:    64 << 10,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    2 * time.Minute,
		IdleTimeout:     time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server serves the form and the render endpoint.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics http.Handler
	form    *template.Template
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// New builds a server. Zero config fields take their DefaultConfig values;
// an empty TempDir means os.TempDir.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger, opts ...Option) (*Server, error) {
	def := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.MaxFormBytes <= 0 {
		cfg.MaxFormBytes = def.MaxFormBytes
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if err := os.MkdirAll(cfg.TempDir, 0o700); err != nil {
		return nil, err
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}

	form, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, runner: runner, logger: logger, form: form}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleForm)
	r.Get("/generate_diagram", s.handleForm)
	r.Post("/generate_diagram", s.handleGenerate)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Run listens on the configured address and serves until ctx is canceled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. It closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
		ErrorLog:     s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
