package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/aboutme/internal/audit"
	"git.home.luguber.info/inful/aboutme/internal/auth"
	"git.home.luguber.info/inful/aboutme/internal/config"
	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/mcpserver"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
	"git.home.luguber.info/inful/aboutme/internal/notify"
	"git.home.luguber.info/inful/aboutme/internal/scheduler"
	"git.home.luguber.info/inful/aboutme/internal/server/httpserver"
	"git.home.luguber.info/inful/aboutme/internal/watcher"
)

const (
	storageProbeInterval = time.Minute
	shutdownTimeout      = 30 * time.Second
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port     int    `short:"p" help:"Override the listen port"`
	Document string `short:"d" help:"Override the document path"`
	SiteDir  string `help:"Override the directory of built front-end assets"`
	Seed     bool   `help:"Write the sample document first if none exists"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	if s.Port > 0 {
		cfg.Server.Port = s.Port
	}
	if s.Document != "" {
		cfg.Storage.DocumentPath = s.Document
	}
	if s.SiteDir != "" {
		cfg.Server.SiteDir = s.SiteDir
	}

	if s.Seed {
		if err := seedDocument(cfg); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, slog.Default())
}

func seedDocument(cfg *config.Config) error {
	seed, err := document.Encode(document.Seed())
	if err != nil {
		return err
	}
	written, err := openStore(cfg).Seed(context.Background(), seed, false)
	if err != nil {
		return err
	}
	if written {
		slog.Info("Seeded document", logfields.File(cfg.Storage.DocumentPath))
	}
	return nil
}

// RunServe wires every component from cfg and serves until ctx is canceled.
func RunServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st := openStore(cfg)
	gate := auth.NewGate(cfg.Auth.AdminPassword)
	if gate.UsingDefault() {
		logger.Warn("ADMIN_PASSWORD not set; using the built-in default password")
	}

	opts := httpserver.Options{
		Store:    st,
		Gate:     gate,
		Logger:   logger,
		Recorder: metrics.NoopRecorder{},
	}

	if cfg.Monitoring.Metrics.Enabled {
		reg := metrics.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		opts.MetricsHandler = metrics.HTTPHandler(reg)
	}

	if cfg.Audit.Enabled {
		auditStore, err := audit.NewSQLiteStore(cfg.Audit.Database)
		if err != nil {
			return err
		}
		defer func() { _ = auditStore.Close() }()
		opts.Audit = auditStore
	}

	var publisher notify.Publisher = notify.Noop{}
	if cfg.Notify.Enabled {
		nats, err := notify.Connect(cfg.Notify.URL, cfg.Notify.Subject, opts.Recorder)
		if err != nil {
			logger.Warn("Change notifications disabled", logfields.Error(err))
		} else {
			publisher = nats
			defer func() { _ = nats.Close() }()
		}
	}
	opts.Publisher = publisher

	if cfg.Watch.Enabled {
		w, err := watcher.New(cfg.Storage.DocumentPath, cfg.Watch.DebounceDuration(), publisher, opts.Recorder)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()
		opts.Acknowledger = w
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		return err
	}
	if _, err := sched.ScheduleStorageProbe(storageProbeInterval, st, opts.Recorder); err != nil {
		return err
	}
	if cfg.LinkCheck.Enabled {
		checker := linkcheck.NewChecker(
			linkcheck.WithTimeout(cfg.LinkCheck.TimeoutDuration()),
			linkcheck.WithMaxConcurrent(cfg.LinkCheck.MaxConcurrent),
		)
		monitor := linkcheck.NewMonitor(st, checker, publisher, opts.Recorder)
		if _, err := sched.ScheduleLinkCheck(cfg.LinkCheck.IntervalDuration(), monitor); err != nil {
			return err
		}
		opts.Links = monitor
	}
	sched.Start()
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.Warn("Scheduler stop failed", logfields.Error(err))
		}
	}()

	if cfg.MCP.Enabled {
		opts.MCPHandler = mcpserver.NewHTTPHandler(mcpserver.NewServer(st), cfg.MCP.Path)
	}

	srv := httpserver.New(cfg, opts)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("Serving portfolio",
		slog.Int("port", cfg.Server.Port),
		logfields.File(cfg.Storage.DocumentPath),
		slog.String("site_dir", cfg.Server.SiteDir))

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}
