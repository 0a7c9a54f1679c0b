package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/aboutme/internal/config"
	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
	handlers "git.home.luguber.info/inful/aboutme/internal/server/handlers"
	smw "git.home.luguber.info/inful/aboutme/internal/server/middleware"
)

// Server serves the configuration API, monitoring endpoints and the site.
type Server struct {
	cfg          *config.Config
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter
	site         http.FileSystem

	// Handler modules
	configHandlers     *handlers.ConfigHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler

	httpServer *http.Server
	listener   net.Listener
}

// New constructs a new HTTP server wiring instance.
func New(cfg *config.Config, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	s := &Server{
		cfg:          cfg,
		opts:         opts,
		logger:       opts.Logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(opts.Logger),
		site:         siteFS(cfg.Server.SiteDir),
	}

	hopts := []handlers.Option{
		handlers.WithLogger(opts.Logger),
		handlers.WithRecorder(opts.Recorder),
		handlers.WithAudit(opts.Audit),
		handlers.WithPublisher(opts.Publisher),
		handlers.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	}
	if opts.Acknowledger != nil {
		hopts = append(hopts, handlers.WithAcknowledger(opts.Acknowledger))
	}
	s.configHandlers = handlers.NewConfigHandlers(opts.Store, opts.Gate, hopts...)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Store, opts.Links)

	mwOpts := []smw.Option{smw.WithRecorder(opts.Recorder)}
	if cfg.Server.CORS.Enabled {
		mwOpts = append(mwOpts, smw.WithCORS(smw.CORSConfig{
			Enabled:        true,
			AllowedOrigins: cfg.Server.CORS.AllowedOrigins,
		}))
	}
	s.mchain = smw.Chain(opts.Logger, s.errorAdapter, mwOpts...)

	return s
}

// Handler returns the complete routing tree wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/config", s.configHandlers.HandleConfig)
	mux.HandleFunc("/api/verify-password", s.configHandlers.HandleVerify)
	mux.HandleFunc("/api/links", s.monitoringHandlers.HandleLinks)

	mux.HandleFunc("/health", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck) // Kubernetes-style alias
	mux.HandleFunc("/ready", s.monitoringHandlers.HandleReadiness)
	mux.HandleFunc("/readyz", s.monitoringHandlers.HandleReadiness) // Kubernetes-style alias

	if s.cfg.Monitoring.Metrics.Enabled && s.opts.MetricsHandler != nil {
		mux.Handle(s.cfg.Monitoring.Metrics.Path, s.opts.MetricsHandler)
	}
	if s.cfg.MCP.Enabled && s.opts.MCPHandler != nil {
		mux.Handle(s.cfg.MCP.Path, s.opts.MCPHandler)
	}

	mux.Handle("/", s.addCacheControlHeaders(http.HandlerFunc(s.handleSite)))

	return s.mchain(mux)
}

// Start binds the configured port and serves in the background. A bind
// failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return derrors.RuntimeError("http startup failed").
			WithCause(err).
			WithContext("port", s.cfg.Server.Port).
			Fatal().
			Build()
	}
	return s.Serve(ln)
}

// Serve serves on a pre-bound listener.
func (s *Server) Serve(ln net.Listener) error {
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
