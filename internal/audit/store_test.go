package audit

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := newMemoryStore(t)
	ctx := t.Context()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, s.Record(ctx, Event{Type: EventAuthRejected, Outcome: "rejected", RemoteAddr: "10.0.0.1"}))
	require.NoError(t, s.Record(ctx, Event{
		Type:          EventConfigUpdated,
		Outcome:       "persisted",
		RequestID:     "req-1",
		ContentSHA256: "abc123",
		SizeBytes:     512,
	}))

	events, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	newest := events[0]
	assert.Equal(t, EventConfigUpdated, newest.Type)
	assert.Equal(t, "persisted", newest.Outcome)
	assert.Equal(t, "req-1", newest.RequestID)
	assert.Equal(t, "abc123", newest.ContentSHA256)
	assert.Equal(t, int64(512), newest.SizeBytes)
	assert.Equal(t, base.Add(2*time.Second), newest.Timestamp)
	assert.NotEmpty(t, newest.EventID)

	assert.Equal(t, EventAuthRejected, events[1].Type)
	assert.Equal(t, "10.0.0.1", events[1].RemoteAddr)
	assert.Empty(t, events[1].ContentSHA256)
	assert.NotEqual(t, newest.EventID, events[1].EventID)
}

func TestListLimit(t *testing.T) {
	s := newMemoryStore(t)
	ctx := t.Context()
	for range 5 {
		require.NoError(t, s.Record(ctx, Event{Type: EventAuthVerified, Outcome: "valid"}))
	}
	events, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Greater(t, events[0].ID, events[2].ID)
}

func TestDuplicateEventIDFails(t *testing.T) {
	s := newMemoryStore(t)
	ctx := t.Context()
	e := Event{EventID: "fixed", Type: EventConfigWriteFailed, Outcome: "write_failed"}
	require.NoError(t, s.Record(ctx, e))
	err := s.Record(ctx, e)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAppendFailed))
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(t.Context(), Event{Type: EventConfigUpdated, Outcome: "persisted"}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	events, err := s.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventConfigUpdated, events[0].Type)
}

func TestNoop(t *testing.T) {
	var r Recorder = Noop{}
	assert.NoError(t, r.Record(t.Context(), Event{Type: EventAuthVerified}))
}
