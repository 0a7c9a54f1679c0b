package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/aboutme/internal/foundation/errors"
	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
)

type message struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs       []message
	publishErr error
	flushes    int
	closed     bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.msgs = append(f.msgs, message{subject: subject, data: data})
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushes++
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestConfigChanged_Subjects(t *testing.T) {
	fc := &fakeConn{}
	p := newPublisher(fc, "aboutme.config", nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.ConfigChanged(t.Context(), ChangeEvent{Source: SourceAPI, ContentSHA256: "abc", SizeBytes: 10, Valid: true}))
	require.NoError(t, p.ConfigChanged(t.Context(), ChangeEvent{Source: SourceExternal, Valid: false}))

	require.Len(t, fc.msgs, 2)
	assert.Equal(t, "aboutme.config.updated", fc.msgs[0].subject)
	assert.Equal(t, "aboutme.config.external_change", fc.msgs[1].subject)
	assert.Equal(t, 2, fc.flushes)

	var got ChangeEvent
	require.NoError(t, json.Unmarshal(fc.msgs[0].data, &got))
	assert.Equal(t, "abc", got.ContentSHA256)
	assert.Equal(t, fixed, got.Timestamp)
	assert.True(t, got.Valid)
}

func TestBrokenLinks(t *testing.T) {
	fc := &fakeConn{}
	p := newPublisher(fc, "portfolio", nil)
	err := p.BrokenLinks(t.Context(), []linkcheck.BrokenLink{
		{Link: linkcheck.Link{URL: "https://a.example", Source: "personal.github"}, Status: 404, Error: "HTTP 404: Not Found"},
		{Link: linkcheck.Link{URL: "https://b.example", Source: "about.description"}, Error: "timeout"},
	})
	require.NoError(t, err)
	require.Len(t, fc.msgs, 2)
	for _, m := range fc.msgs {
		assert.Equal(t, "portfolio.broken_link", m.subject)
	}
	var ev map[string]any
	require.NoError(t, json.Unmarshal(fc.msgs[0].data, &ev))
	assert.Equal(t, "https://a.example", ev["url"])
	assert.Equal(t, "personal.github", ev["source"])
	assert.InDelta(t, 404, ev["status"], 0)
}

func TestPublishFailureIsClassified(t *testing.T) {
	fc := &fakeConn{publishErr: stderrors.New("nats: connection closed")}
	p := newPublisher(fc, "aboutme.config", nil)
	err := p.ConfigChanged(t.Context(), ChangeEvent{Source: SourceAPI})
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotify))
	assert.Zero(t, fc.flushes)
}

func TestClose(t *testing.T) {
	fc := &fakeConn{}
	require.NoError(t, newPublisher(fc, "x", nil).Close())
	assert.True(t, fc.closed)
	require.NoError(t, Noop{}.Close())
}
