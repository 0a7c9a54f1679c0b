package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
	"git.home.luguber.info/inful/aboutme/internal/server/responses"
	"git.home.luguber.info/inful/aboutme/internal/version"
)

// Prober checks that the document can be read.
type Prober interface {
	Probe(ctx context.Context) error
}

// LinkReporter exposes the latest link check.
type LinkReporter interface {
	Last() (linkcheck.Report, bool)
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	prober       Prober
	links        LinkReporter
	startTime    time.Time
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance. links may be nil
// when link checking is disabled.
func NewMonitoringHandlers(prober Prober, links LinkReporter) *MonitoringHandlers {
	return &MonitoringHandlers{
		prober:       prober,
		links:        links,
		startTime:    time.Now(),
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports liveness.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, h.errorAdapter, http.MethodGet, http.MethodHead)
		return
	}
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		internalErr := derrors.WrapError(err, derrors.CategoryInternal, "failed to write health response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleReadiness reports whether the document is readable and well formed.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, h.errorAdapter, http.MethodGet, http.MethodHead)
		return
	}
	if h.prober != nil {
		if err := h.prober.Probe(r.Context()); err != nil {
			h.errorAdapter.WriteStatus(w, r, http.StatusServiceUnavailable, responses.ReadyResponse{
				Status:   "not_ready",
				Document: "unavailable",
				Error:    MsgReadFailed,
			}, err)
			return
		}
	}
	_ = writeJSONPretty(w, r, http.StatusOK, responses.ReadyResponse{Status: "ready", Document: "ok"})
}

// HandleLinks returns the latest link check report.
func (h *MonitoringHandlers) HandleLinks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, r, h.errorAdapter, http.MethodGet, http.MethodHead)
		return
	}
	if h.links == nil {
		_ = writeJSONPretty(w, r, http.StatusOK, responses.LinksResponse{Status: "disabled", Broken: []responses.BrokenLink{}})
		return
	}
	report, ok := h.links.Last()
	if !ok {
		_ = writeJSONPretty(w, r, http.StatusOK, responses.LinksResponse{Status: "pending", Broken: []responses.BrokenLink{}})
		return
	}
	_ = writeJSONPretty(w, r, http.StatusOK, linksResponse(report))
}

func linksResponse(report linkcheck.Report) responses.LinksResponse {
	checkedAt := report.CheckedAt
	resp := responses.LinksResponse{
		Status:    "ok",
		CheckedAt: &checkedAt,
		Duration:  report.Duration.Seconds(),
		Checked:   report.Checked,
		Broken:    make([]responses.BrokenLink, 0, len(report.Broken)),
	}
	if len(report.Broken) > 0 {
		resp.Status = "broken_links"
	}
	for _, b := range report.Broken {
		resp.Broken = append(resp.Broken, responses.BrokenLink{
			URL:    b.URL,
			Source: b.Source,
			Status: b.Status,
			Error:  b.Error,
		})
	}
	return resp
}
