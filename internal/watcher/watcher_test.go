package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/aboutme/internal/linkcheck"
	"git.home.luguber.info/inful/aboutme/internal/notify"
	"git.home.luguber.info/inful/aboutme/internal/store"
)

type capture struct {
	mu     sync.Mutex
	events []notify.ChangeEvent
}

func (c *capture) ConfigChanged(_ context.Context, e notify.ChangeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capture) BrokenLinks(context.Context, []linkcheck.BrokenLink) error { return nil }
func (c *capture) Close() error                                              { return nil }

func (c *capture) snapshot() []notify.ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.ChangeEvent(nil), c.events...)
}



func startWatcher(t *testing.T, path string, pub notify.Publisher) *DocumentWatcher {
	t.Helper()
	w, err := New(path, 30*time.Millisecond, pub, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestExternalEditIsPublished(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"personal":{"name":"Ada"}}`), 0o600))

	pub := &capture{}
	startWatcher(t, path, pub)

	require.NoError(t, os.WriteFile(path, []byte(`{"personal":{"name":"Grace"}}`), 0o600))
	require.Eventually(t, func() bool { return len(pub.snapshot()) == 1 }, 3*time.Second, 20*time.Millisecond)

	ev := pub.snapshot()[0]
	assert.Equal(t, notify.SourceExternal, ev.Source)
	assert.True(t, ev.Valid)
	assert.Equal(t, store.Digest([]byte(`{"personal":{"name":"Grace"}}`)), ev.ContentSHA256)
}

func TestAcknowledgedWriteIsNotPublished(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	st := store.NewFileStore(path)
	require.NoError(t, st.Set(t.Context(), []byte(`{"a":1}`)))

	pub := &capture{}
	w := startWatcher(t, path, pub)

	next := []byte(`{"a":2}`)
	w.Acknowledge(store.Digest(next))
	require.NoError(t, st.Set(t.Context(), next))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, pub.snapshot())
}

func TestInvalidDocumentIsReportedInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o600))

	pub := &capture{}
	startWatcher(t, path, pub)

	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0o600))
	require.Eventually(t, func() bool { return len(pub.snapshot()) == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.False(t, pub.snapshot()[0].Valid)
}

func TestStopWithoutStart(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "config.json"), 0, nil, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
