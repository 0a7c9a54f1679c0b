// Package commands implements the aboutme command line.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/aboutme/internal/config"
	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"aboutme.yaml" env:"ABOUTME_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd      `cmd:"" help:"Serve the site and the configuration API"`
	Init       InitCmd       `cmd:"" help:"Write an example configuration file and seed the document"`
	Show       ShowCmd       `cmd:"" help:"Print the stored document"`
	Render     RenderCmd     `cmd:"" help:"Render the portfolio page to HTML"`
	CheckLinks CheckLinksCmd `cmd:"" name:"check-links" help:"Check every external link in the document once"`
	Audit      AuditCmd      `cmd:"" help:"List recent admin actions from the audit log"`
	Admin      AdminCmd      `cmd:"" help:"Edit the document through a running server"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the configuration and switches logging to its settings.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Monitoring.Logging.NewLogger(os.Stderr, root.Verbose)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return cfg, nil
}

func openStore(cfg *config.Config) *store.FileStore {
	return store.NewFileStore(cfg.Storage.DocumentPath)
}

// Hint returns a follow-up line for failures the user can usually fix, or "".
func Hint(err error) string {
	switch {
	case derrors.HasCategory(err, derrors.CategoryAuth):
		return "Hint: pass the admin password with --password or ADMIN_PASSWORD"
	case derrors.HasCategory(err, derrors.CategoryNetwork):
		return "Hint: check that the server is running at --url (or ABOUTME_URL)"
	}
	return ""
}
