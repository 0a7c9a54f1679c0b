// Package notify publishes document change and broken-link events.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
	"git.home.luguber.info/inful/aboutme/internal/metrics"
)

// ChangeSource says how the document changed.
type ChangeSource string

const (
	SourceAPI      ChangeSource = "api"      // POST /api/config
	SourceExternal ChangeSource = "external" // file edited outside the service
)

// ChangeEvent announces a new document version. Consumers fetch the content
// from the API; only its digest travels on the bus.
type ChangeEvent struct {
	Source        ChangeSource `json:"source"`
	ContentSHA256 string       `json:"content_sha256"`
	SizeBytes     int          `json:"size_bytes"`
	Valid         bool         `json:"valid"`
	RequestID     string       `json:"request_id,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

// BrokenLinkEvent is published once per broken link.
type BrokenLinkEvent struct {
	linkcheck.BrokenLink
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends notifications. Implementations must be safe for concurrent use.
type Publisher interface {
	ConfigChanged(ctx context.Context, e ChangeEvent) error
	BrokenLinks(ctx context.Context, links []linkcheck.BrokenLink) error
	Close() error
}

// Noop drops every notification.
type Noop struct{}

func (Noop) ConfigChanged(context.Context, ChangeEvent) error              { return nil }
func (Noop) BrokenLinks(context.Context, []linkcheck.BrokenLink) error { return nil }
func (Noop) Close() error                                                  { return nil }

// conn is the subset of *nats.Conn used here.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// NATSPublisher publishes JSON events on core NATS subjects below a prefix:
// <prefix>.updated, <prefix>.external_change and <prefix>.broken_link.
type NATSPublisher struct {
	conn     conn
	prefix   string
	recorder metrics.Recorder
	now      func() time.Time
}

// Connect dials url and returns a publisher for subjects below prefix.
func Connect(url, prefix string, recorder metrics.Recorder) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("aboutme"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").WithCause(err).WithContext("url", url).Build()
	}
	slog.Info("NATS publisher initialized", "url", url, "subject", prefix)
	return newPublisher(nc, prefix, recorder), nil
}

func newPublisher(c conn, prefix string, recorder metrics.Recorder) *NATSPublisher {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &NATSPublisher{conn: c, prefix: prefix, recorder: recorder, now: time.Now}
}

// Subject returns the full subject for kind.
func (p *NATSPublisher) Subject(kind string) string { return p.prefix + "." + kind }

// ConfigChanged publishes e on updated (API writes) or external_change.
func (p *NATSPublisher) ConfigChanged(ctx context.Context, e ChangeEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = p.now().UTC()
	}
	kind := "updated"
	if e.Source == SourceExternal {
		kind = "external_change"
	}
	if err := p.publish(kind, e); err != nil {
		return err
	}
	return p.flush(ctx)
}

// BrokenLinks publishes one event per link.
func (p *NATSPublisher) BrokenLinks(ctx context.Context, links []linkcheck.BrokenLink) error {
	ts := p.now().UTC()
	for _, l := range links {
		if err := p.publish("broken_link", BrokenLinkEvent{BrokenLink: l, Timestamp: ts}); err != nil {
			return err
		}
	}
	return p.flush(ctx)
}

func (p *NATSPublisher) publish(kind string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	subject := p.Subject(kind)
	if err := p.conn.Publish(subject, data); err != nil {
		p.recorder.IncNotifyPublish(kind, metrics.ResultFailed)
		return errors.NotifyError("failed to publish event").WithCause(err).WithContext("subject", subject).Build()
	}
	p.recorder.IncNotifyPublish(kind, metrics.ResultSuccess)
	slog.Debug("Published event", "subject", subject)
	return nil
}

func (p *NATSPublisher) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return errors.NotifyError("failed to flush NATS connection").WithCause(err).Build()
	}
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
