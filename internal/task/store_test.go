package task

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	added      []Task
	completed  []Task
	randomized []int
}

func (r *recordingObserver) TaskAdded(t Task)           { r.added = append(r.added, t) }
func (r *recordingObserver) TaskCompleted(t Task)       { r.completed = append(r.completed, t) }
func (r *recordingObserver) StatesRandomized(count int) { r.randomized = append(r.randomized, count) }

func mustNew(t *testing.T, description string, priority int, state State) Task {
	t.Helper()
	tk, err := New(description, priority, WithStatePicker(fixedPicker(state)))
	require.NoError(t, err)
	return tk
}

func TestStore_Add(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())

	first := mustNew(t, "first", 1, StateEntangled)
	assert.Equal(t, 0, s.Add(first))
	second := mustNew(t, "second", 2, StateSuperposition)
	assert.Equal(t, 1, s.Add(second))

	all := s.All()
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0])
	assert.Equal(t, second, all[len(all)-1])
}

func TestStore_AllIsSnapshot(t *testing.T) {
	s := NewStore()
	s.Add(mustNew(t, "task", 3, StateEntangled))

	snap := s.All()
	snap[0].Description = "mutated"

	got, err := s.Get(0)
	require.NoError(t, err)
	assert.Equal(t, "task", got.Description)
}

func TestStore_Complete(t *testing.T) {
	t.Run("collapses and completes", func(t *testing.T) {
		s := NewStore()
		s.Add(mustNew(t, "Write report", 4, StateSuperposition))

		tk, err := s.Complete(0)
		require.NoError(t, err)
		assert.True(t, tk.Completed)
		assert.Equal(t, StateCollapsed, tk.State)
	})

	t.Run("is idempotent", func(t *testing.T) {
		obs := &recordingObserver{}
		s := NewStore(WithObserver(obs))
		s.Add(mustNew(t, "task", 2, StateEntangled))

		_, err := s.Complete(0)
		require.NoError(t, err)
		tk, err := s.Complete(0)
		require.NoError(t, err)
		assert.True(t, tk.Completed)
		assert.Equal(t, StateCollapsed, tk.State)
		assert.Len(t, obs.completed, 1)
	})

	t.Run("out of range does not mutate", func(t *testing.T) {
		s := NewStore()
		s.Add(mustNew(t, "task", 2, StateEntangled))
		before := s.All()

		for _, idx := range []int{-1, 1, 42} {
			_, err := s.Complete(idx)
			require.Error(t, err)
			assert.True(t, IsNotFound(err))
		}
		assert.Equal(t, before, s.All())
	})
}

func TestStore_CompleteByID(t *testing.T) {
	s := NewStore()
	tk := mustNew(t, "task", 2, StateEntangled)
	s.Add(tk)

	got, err := s.CompleteByID(tk.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	_, err = s.CompleteByID("missing")
	assert.True(t, IsNotFound(err))
}

func TestStore_RandomizeStates(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore(
		WithRandomizer(fixedPicker(StateEntangled)),
		WithObserver(obs),
	)
	s.Add(mustNew(t, "open", 1, StateSuperposition))
	s.Add(mustNew(t, "done", 5, StateSuperposition))
	s.Add(mustNew(t, "open too", 3, StateCollapsed))

	_, err := s.Complete(1)
	require.NoError(t, err)

	n := s.RandomizeStates()
	assert.Equal(t, 2, n)

	all := s.All()
	assert.Equal(t, StateEntangled, all[0].State)
	assert.Equal(t, StateCollapsed, all[1].State, "completed task stays collapsed")
	assert.True(t, all[1].Completed)
	assert.Equal(t, StateEntangled, all[2].State)
	assert.Equal(t, []int{2}, obs.randomized)
}

func TestStore_Observer(t *testing.T) {
	obs := &recordingObserver{}
	s := NewStore()
	s.Observe(obs)

	tk := mustNew(t, "task", 1, StateEntangled)
	s.Add(tk)
	require.Len(t, obs.added, 1)
	assert.Equal(t, tk.ID, obs.added[0].ID)
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	_, err := s.Get(0)
	assert.True(t, IsNotFound(err))
}

func TestStore_AddConcurrentPositions(t *testing.T) {
	s := NewStore()
	const n = 50

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got = make(map[int]string, n)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk, err := New("parallel", 3)
			if err != nil {
				return
			}
			index := s.Add(tk)
			mu.Lock()
			got[index] = tk.ID
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, got, n)
	for index, id := range got {
		stored, err := s.Get(index)
		require.NoError(t, err)
		assert.Equal(t, id, stored.ID)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk, err := New("concurrent", 3)
			if err != nil {
				return
			}
			s.Add(tk)
			s.RandomizeStates()
			_, _ = s.Complete(0)
			_ = s.All()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
	first, err := s.Get(0)
	require.NoError(t, err)
	assert.True(t, first.Completed)
	assert.Equal(t, StateCollapsed, first.State)
}
