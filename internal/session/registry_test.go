package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(t *testing.T, cfg Config) (*Registry, *Metrics, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewRegistry(cfg, metrics, nil, WithClock(clock.Now)), metrics, clock
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r, metrics, _ := newTestRegistry(t, DefaultConfig())

	s, err := r.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.NotNil(t, s.Store)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsActive))

	got, err := r.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	r, _, _ := newTestRegistry(t, DefaultConfig())
	a, err := r.Create()
	require.NoError(t, err)
	b, err := r.Create()
	require.NoError(t, err)

	tk, err := task.New("only in a", 2)
	require.NoError(t, err)
	a.Store.Add(tk)

	assert.Equal(t, 1, a.Store.Len())
	assert.Equal(t, 0, b.Store.Len())
}

func TestRegistry_MaxSessions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSessions = 1
	r, _, _ := newTestRegistry(t, cfg)

	_, err := r.Create()
	require.NoError(t, err)
	_, err = r.Create()
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestRegistry_Expiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TTL = time.Minute
	r, metrics, clock := newTestRegistry(t, cfg)

	idle, err := r.Create()
	require.NoError(t, err)
	busy, err := r.Create()
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = r.Get(busy.ID)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, r.Sweep(clock.Now()))
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionsExpired))

	clock.Advance(2 * time.Minute)
	_, err = r.Get(busy.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ConcurrentGetAndSweep(t *testing.T) {
	r := NewRegistry(DefaultConfig(), nil, nil)
	s, err := r.Create()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := r.Get(s.ID)
				assert.NoError(t, err)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Sweep(time.Now())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Len())
}

func TestRegistry_StoreMetrics(t *testing.T) {
	r, metrics, _ := newTestRegistry(t, DefaultConfig())
	s, err := r.Create()
	require.NoError(t, err)

	for _, p := range []int{1, 4} {
		tk, err := task.New("task", p)
		require.NoError(t, err)
		s.Store.Add(tk)
	}
	_, err = s.Store.Complete(1)
	require.NoError(t, err)
	_, err = s.Store.Complete(1)
	require.NoError(t, err)
	s.Store.RandomizeStates()

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.TasksAdded))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TasksCompleted.WithLabelValues("4")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StatesRandomized))
}

func TestRegistry_Run(t *testing.T) {
	cfg := Config{TTL: time.Nanosecond, SweepInterval: 5 * time.Millisecond}
	r := NewRegistry(cfg, nil, nil)
	_, err := r.Create()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestPriorityLabel(t *testing.T) {
	assert.Equal(t, "3", priorityLabel(3))
	assert.Equal(t, "unknown", priorityLabel(9))
}

func TestRegistry_ExpireHook(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	var expired []string
	reg := NewRegistry(Config{TTL: time.Minute}, nil, nil,
		WithClock(clock.Now),
		WithExpireHook(func(id string) { expired = append(expired, id) }),
	)

	s, err := reg.Create()
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, reg.Sweep(clock.Now()))
	assert.Equal(t, []string{s.ID}, expired)
}
