package linkcheck

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/aboutme/internal/document"
	"git.home.luguber.info/inful/aboutme/internal/logfields"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

// BrokenLinkPublisher receives the broken links of each run.
type BrokenLinkPublisher interface {
	BrokenLinks(ctx context.Context, links []BrokenLink) error
}

// Monitor runs the checker against the stored document and keeps the last report.
type Monitor struct {
	store     store.Store
	checker   *Checker
	publisher BrokenLinkPublisher
	recorder  metrics.Recorder

	mu   sync.RWMutex
	last *Report
}

// NewMonitor creates a Monitor. publisher and recorder may be nil.
func NewMonitor(st store.Store, checker *Checker, publisher BrokenLinkPublisher, recorder metrics.Recorder) *Monitor {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Monitor{store: st, checker: checker, publisher: publisher, recorder: recorder}
}

// Run performs one check. A document that cannot be read is an error and
// leaves the previous report in place.
func (m *Monitor) Run(ctx context.Context) (Report, error) {
	raw, err := m.store.Get(ctx)
	if err != nil {
		return Report{}, err
	}
	doc, err := document.Parse(raw)
	if err != nil {
		return Report{}, err
	}

	report := m.checker.CheckDocument(ctx, doc)
	m.recorder.ObserveLinkCheck(report.Duration, report.Checked, len(report.Broken))
	slog.Info("Link check completed",
		slog.Int("checked", report.Checked),
		slog.Int("broken", len(report.Broken)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	if len(report.Broken) > 0 && m.publisher != nil {
		if err := m.publisher.BrokenLinks(ctx, report.Broken); err != nil {
			slog.Warn("Failed to publish broken links", logfields.Error(err))
		}
	}

	m.mu.Lock()
	m.last = &report
	m.mu.Unlock()
	return report, nil
}

// Last returns the most recent report, if any run has completed.
func (m *Monitor) Last() (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return Report{}, false
	}
	return *m.last, true
}
