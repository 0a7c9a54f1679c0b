package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/aboutme/internal/metrics"
)

func newScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestScheduleEvery(t *testing.T) {
	t.Run("returns job id for valid interval", func(t *testing.T) {
		s := newScheduler(t)
		id, err := s.ScheduleEvery("test", 10*time.Second, false, func(context.Context) {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		s := newScheduler(t)
		_, err := s.ScheduleEvery("test", 0, false, func(context.Context) {})
		require.Error(t, err)
	})

	t.Run("immediate job runs on start", func(t *testing.T) {
		s := newScheduler(t)
		var runs atomic.Int32
		_, err := s.ScheduleEvery("test", time.Hour, true, func(context.Context) { runs.Add(1) })
		require.NoError(t, err)
		s.Start()
		require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	})
}

type flakyProber struct{ fail atomic.Bool }

func (p *flakyProber) Probe(context.Context) error {
	if p.fail.Load() {
		return errors.New("unreadable")
	}
	return nil
}

type gaugeRecorder struct {
	metrics.NoopRecorder
	mu     sync.Mutex
	values []bool
}

func (g *gaugeRecorder) SetDocumentValid(v bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values = append(g.values, v)
}

func (g *gaugeRecorder) snapshot() []bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]bool(nil), g.values...)
}

func TestScheduleStorageProbe(t *testing.T) {
	s := newScheduler(t)
	prober := &flakyProber{}
	prober.fail.Store(true)
	rec := &gaugeRecorder{}

	_, err := s.ScheduleStorageProbe(time.Hour, prober, rec)
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []bool{false}, rec.snapshot())
}
