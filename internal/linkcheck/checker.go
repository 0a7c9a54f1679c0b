// Package linkcheck verifies the external links referenced by the document.
package linkcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/version"
)

// BrokenLink is a link that failed verification.
type BrokenLink struct {
	Link
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// Report is the result of one run.
type Report struct {
	CheckedAt time.Time     `json:"checked_at"`
	Duration  time.Duration `json:"duration_ns"`
	Checked   int           `json:"checked"`
	Broken    []BrokenLink  `json:"broken"`
}

// Checker issues HEAD requests (GET when HEAD is refused) with bounded concurrency.
type Checker struct {
	client        *http.Client
	timeout       time.Duration
	maxConcurrent int
	userAgent     string
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) {
		if c != nil {
			ch.client = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(ch *Checker) {
		if d > 0 {
			ch.timeout = d
		}
	}
}

// WithMaxConcurrent bounds the number of requests in flight.
func WithMaxConcurrent(n int) Option {
	return func(ch *Checker) {
		if n > 0 {
			ch.maxConcurrent = n
		}
	}
}

// NewChecker creates a Checker.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client: &http.Client{
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		timeout:       10 * time.Second,
		maxConcurrent: 4,
		userAgent:     "aboutme-linkcheck/" + version.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckDocument collects the document's links and checks them.
func (c *Checker) CheckDocument(ctx context.Context, doc document.Document) Report {
	return c.Check(ctx, Collect(doc))
}

// Check verifies links. Broken entries keep the order of links.
func (c *Checker) Check(ctx context.Context, links []Link) Report {
	start := time.Now()
	results := make([]*BrokenLink, len(links))
	sem := make(chan struct{}, c.maxConcurrent)
	var wg sync.WaitGroup

	for i, link := range links {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = &BrokenLink{Link: link, Error: ctx.Err().Error()}
			continue
		}
		wg.Add(1)
		go func(i int, link Link) {
			defer wg.Done()
			defer func() { <-sem }()
			status, err := c.checkOne(ctx, link.URL)
			if err != nil {
				slog.Debug("Broken link", logfields.URL(link.URL), logfields.Status(status), logfields.Error(err))
				results[i] = &BrokenLink{Link: link, Status: status, Error: err.Error()}
			}
		}(i, link)
	}
	wg.Wait()

	report := Report{CheckedAt: start.UTC(), Duration: time.Since(start), Checked: len(links), Broken: []BrokenLink{}}
	for _, r := range results {
		if r != nil {
			report.Broken = append(report.Broken, *r)
		}
	}
	return report
}

func (c *Checker) checkOne(ctx context.Context, rawURL string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, rawURL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = c.do(ctx, http.MethodGet, rawURL)
	}
	if err != nil {
		return 0, err
	}
	// The resource exists but wants credentials.
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return status, nil
	}
	if status >= 400 {
		return status, fmt.Errorf("HTTP %d: %s", status, http.StatusText(status))
	}
	return status, nil
}

func (c *Checker) do(ctx context.Context, method, rawURL string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}
