package linkcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

func TestCollect(t *testing.T) {
	doc := document.Document{
		Personal: document.Personal{
			Photo:    "/img/me.png",
			LinkedIn: "https://linkedin.com/in/ada",
			GitHub:   "https://github.com/ada",
			Email:    "ada@example.com",
		},
		About: document.About{
			Description: "I wrote [notes](https://example.org/notes) and [more](mailto:x@y).",
		},
		Projects: document.Projects{Categories: []document.Category{{
			Name: "Engines",
			Projects: []document.Project{{
				Name:        "Analytical",
				Description: "Repo mirror: https://github.com/ada",
				GitHubURL:   "https://github.com/ada/engine",
				LiveURL:     "ftp://old.example",
				DocsURL:     " https://docs.example/engine ",
			}},
		}}},
	}

	links := Collect(doc)
	assert.Equal(t, []Link{
		{URL: "https://linkedin.com/in/ada", Source: "personal.linkedin"},
		{URL: "https://github.com/ada", Source: "personal.github"},
		{URL: "https://example.org/notes", Source: "about.description"},
		{URL: "https://github.com/ada/engine", Source: "projects.categories[0].projects[0].githubUrl"},
		{URL: "https://docs.example/engine", Source: "projects.categories[0].projects[0].docsUrl"},
	}, links)
}

func newLinkServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var gets atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/gone", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	mux.HandleFunc("/private", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusForbidden) })
	mux.HandleFunc("/no-head", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		gets.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &gets
}

func TestChecker_Check(t *testing.T) {
	srv, gets := newLinkServer(t)
	c := NewChecker(WithHTTPClient(srv.Client()), WithTimeout(200*time.Millisecond), WithMaxConcurrent(2))

	links := []Link{
		{URL: srv.URL + "/ok", Source: "a"},
		{URL: srv.URL + "/gone", Source: "b"},
		{URL: srv.URL + "/private", Source: "c"},
		{URL: srv.URL + "/no-head", Source: "d"},
		{URL: srv.URL + "/slow", Source: "e"},
	}
	report := c.Check(t.Context(), links)

	assert.Equal(t, 5, report.Checked)
	require.Len(t, report.Broken, 2)
	assert.Equal(t, "b", report.Broken[0].Source)
	assert.Equal(t, http.StatusNotFound, report.Broken[0].Status)
	assert.Equal(t, "e", report.Broken[1].Source)
	assert.Equal(t, 0, report.Broken[1].Status)
	assert.Equal(t, int32(1), gets.Load(), "HEAD 405 falls back to GET")
}

func TestChecker_RespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var links []Link
	for i := range 10 {
		links = append(links, Link{URL: srv.URL + "/" + string(rune('a'+i))})
	}
	report := NewChecker(WithHTTPClient(srv.Client()), WithMaxConcurrent(3)).Check(t.Context(), links)
	assert.Empty(t, report.Broken)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

type capturePublisher struct {
	mu    sync.Mutex
	links []BrokenLink
}

func (p *capturePublisher) BrokenLinks(_ context.Context, links []BrokenLink) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.links = append(p.links, links...)
	return nil
}

func TestMonitor_Run(t *testing.T) {
	srv, _ := newLinkServer(t)
	st := store.NewFileStore(filepath.Join(t.TempDir(), "config.json"))

	mon := NewMonitor(st, NewChecker(WithHTTPClient(srv.Client())), nil, nil)
	_, err := mon.Run(t.Context())
	require.Error(t, err, "missing document")
	_, ok := mon.Last()
	assert.False(t, ok)

	doc := document.Document{Personal: document.Personal{
		GitHub:   srv.URL + "/ok",
		LinkedIn: srv.URL + "/gone",
	}}
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, st.Set(t.Context(), raw))

	pub := &capturePublisher{}
	mon = NewMonitor(st, NewChecker(WithHTTPClient(srv.Client())), pub, nil)
	report, err := mon.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	require.Len(t, pub.links, 1)
	assert.Equal(t, "personal.linkedin", pub.links[0].Source)

	last, ok := mon.Last()
	require.True(t, ok)
	assert.Equal(t, report.CheckedAt, last.CheckedAt)
}
