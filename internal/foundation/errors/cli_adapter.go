package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return 1
	}
	switch classified.Category() {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryAuth:
		return 5
	case CategoryConfig:
		return 7
	case CategoryNetwork, CategoryNotify:
		return 8 // External system error
	case CategoryStorage, CategoryEventStore:
		return 9
	case CategoryInternal:
		return 10
	case CategoryRuntime:
		return 12
	default:
		return 1
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}
	return fmt.Sprintf("Error: %s", classified.Message())
}

// Report logs err and prints the user-facing message to out. It returns the exit code.
func (a *CLIErrorAdapter) Report(out io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
		if classified.CanRetry() {
			attrs = append(attrs, slog.Bool("resubmittable", true))
		}
		a.logger.LogAttrs(context.Background(), slog.LevelDebug, classified.Error(), attrs...)
	} else {
		a.logger.Debug("Unclassified error", "error", err)
	}
	_, _ = fmt.Fprintln(out, a.FormatError(err))
	return a.ExitCodeFor(err)
}
