package task

import (
	"fmt"
	"sync"
)

// Observer is notified after each store mutation.
// Callbacks run after the store lock is released.
type Observer interface {
	TaskAdded(t Task)
	TaskCompleted(t Task)
	StatesRandomized(count int)
}

// Store is an ordered, session-local collection of tasks.
//
// Position in insertion order is the primary handle; each task also carries a
// stable synthetic ID. Store is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	tasks     []Task
	picker    StatePicker
	observers []Observer
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRandomizer sets the picker used by RandomizeStates.
func WithRandomizer(p StatePicker) StoreOption {
	return func(s *Store) {
		s.picker = p
	}
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) StoreOption {
	return func(s *Store) {
		s.observers = append(s.observers, o)
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{picker: UniformPicker{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe registers an additional observer.
func (s *Store) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Add appends a task and returns its position.
func (s *Store) Add(t Task) int {
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	index := len(s.tasks) - 1
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.TaskAdded(t)
	}
	return index
}

// Complete marks the task at index as completed and collapses its state.
// Completing an already completed task is a no-op that succeeds.
func (s *Store) Complete(index int) (Task, error) {
	s.mu.Lock()
	if index < 0 || index >= len(s.tasks) {
		n := len(s.tasks)
		s.mu.Unlock()
		return Task{}, fmt.Errorf("complete index %d (store has %d tasks): %w", index, n, ErrNotFound)
	}
	t, changed := s.completeLocked(index)
	observers := s.observers
	s.mu.Unlock()

	if changed {
		for _, o := range observers {
			o.TaskCompleted(t)
		}
	}
	return t, nil
}

// CompleteByID is Complete addressed by synthetic ID.
func (s *Store) CompleteByID(id string) (Task, error) {
	s.mu.Lock()
	index := -1
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return Task{}, fmt.Errorf("complete id %q: %w", id, ErrNotFound)
	}
	t, changed := s.completeLocked(index)
	observers := s.observers
	s.mu.Unlock()

	if changed {
		for _, o := range observers {
			o.TaskCompleted(t)
		}
	}
	return t, nil
}

func (s *Store) completeLocked(index int) (Task, bool) {
	t := &s.tasks[index]
	if t.Completed {
		return *t, false
	}
	t.Completed = true
	t.State = StateCollapsed
	return *t, true
}

// RandomizeStates re-rolls the state of every task that is not completed and
// returns how many tasks were re-rolled. Completed tasks stay Collapsed.
func (s *Store) RandomizeStates() int {
	s.mu.Lock()
	count := 0
	for i := range s.tasks {
		if s.tasks[i].Completed {
			continue
		}
		s.tasks[i].State = s.picker.Pick()
		count++
	}
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.StatesRandomized(count)
	}
	return count
}

// All returns a snapshot of the tasks in insertion order.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task at index.
func (s *Store) Get(index int) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index < 0 || index >= len(s.tasks) {
		return Task{}, fmt.Errorf("get index %d: %w", index, ErrNotFound)
	}
	return s.tasks[index], nil
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
