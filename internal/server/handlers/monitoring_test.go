package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
	"git.home.luguber.info/inful/aboutme/internal/server/responses"
)

type proberFunc func(context.Context) error

func (f proberFunc) Probe(ctx context.Context) error { return f(ctx) }

type staticLinks struct {
	report linkcheck.Report
	ok     bool
}

func (s staticLinks) Last() (linkcheck.Report, bool) { return s.report, s.ok }

func TestHealth(t *testing.T) {
	h := NewMonitoringHandlers(nil, nil)
	rec := httptest.NewRecorder()
	h.HandleHealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body responses.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
}

func TestReadiness(t *testing.T) {
	ok := NewMonitoringHandlers(proberFunc(func(context.Context) error { return nil }), nil)
	rec := httptest.NewRecorder()
	ok.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	bad := NewMonitoringHandlers(proberFunc(func(context.Context) error { return errors.New("/secret/path missing") }), nil)
	rec = httptest.NewRecorder()
	bad.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/secret/path")
}

func TestLinks(t *testing.T) {
	rec := httptest.NewRecorder()
	NewMonitoringHandlers(nil, nil).HandleLinks(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))
	assert.JSONEq(t, `{"status":"disabled","duration_seconds":0,"checked":0,"broken":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewMonitoringHandlers(nil, staticLinks{}).HandleLinks(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))
	assert.Contains(t, rec.Body.String(), `"pending"`)

	report := linkcheck.Report{
		CheckedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Duration:  2 * time.Second,
		Checked:   3,
		Broken: []linkcheck.BrokenLink{{
			Link:   linkcheck.Link{URL: "https://gone.example", Source: "projects.categories[0].projects[0].url"},
			Status: 404,
		}},
	}
	rec = httptest.NewRecorder()
	NewMonitoringHandlers(nil, staticLinks{report: report, ok: true}).HandleLinks(rec, httptest.NewRequest(http.MethodGet, "/api/links", nil))

	var body responses.LinksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "broken_links", body.Status)
	assert.Equal(t, 3, body.Checked)
	require.Len(t, body.Broken, 1)
	assert.Equal(t, 404, body.Broken[0].Status)
}
