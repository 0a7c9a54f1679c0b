package httpserver

import (
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/aboutme/internal/audit"
	"git.home.luguber.info/inful/aboutme/internal/auth"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
	"git.home.luguber.info/inful/aboutme/internal/notify"
	handlers "git.home.luguber.info/inful/aboutme/internal/server/handlers"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

// DocumentStore is the store as seen by the server: the API needs Get/Set
// and readiness needs Probe.
type DocumentStore interface {
	store.Store
	handlers.Prober
}

// Options configures server wiring that is runtime-specific. Only Store and
// Gate are required.
type Options struct {
	Store DocumentStore
	Gate  *auth.Gate

	Logger    *slog.Logger
	Recorder  metrics.Recorder
	Audit     audit.Recorder
	Publisher notify.Publisher

	// Optional: told about documents written through the API.
	Acknowledger handlers.Acknowledger

	// Optional: source of GET /api/links.
	Links handlers.LinkReporter

	// Optional: mounted at the configured paths when set.
	MetricsHandler http.Handler
	MCPHandler     http.Handler
}
