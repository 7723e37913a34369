package projection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

// ErrNoData is returned when a ratio is requested over zero tasks.
var ErrNoData = errors.New("no data")

// Analytics holds aggregate counts over a snapshot.
type Analytics struct {
	// StateCounts always contains every state, zero counts included.
	StateCounts map[task.State]int

	// PriorityCounts contains only priorities that occur.
	PriorityCounts map[int]int

	Completed int
	Total     int
}

// Analyze computes aggregate counts.
func Analyze(tasks []task.Task) Analytics {
	a := Analytics{
		StateCounts:    make(map[task.State]int, 3),
		PriorityCounts: make(map[int]int),
		Total:          len(tasks),
	}
	for _, s := range task.States() {
		a.StateCounts[s] = 0
	}

	for _, t := range tasks {
		a.StateCounts[t.State]++
		a.PriorityCounts[t.Priority]++
		if t.Completed {
			a.Completed++
		}
	}
	return a
}

// CompletionRate returns the completed share as a percentage in [0, 100].
// It returns ErrNoData when there are no tasks.
func (a Analytics) CompletionRate() (float64, error) {
	if a.Total == 0 {
		return 0, ErrNoData
	}
	return float64(a.Completed) / float64(a.Total) * 100, nil
}

// CompletionLabel returns "completed/total".
func (a Analytics) CompletionLabel() string {
	return fmt.Sprintf("%d/%d", a.Completed, a.Total)
}

// PriorityHistogram returns counts for every priority from MinPriority to MaxPriority.
func (a Analytics) PriorityHistogram() []int {
	out := make([]int, task.MaxPriority-task.MinPriority+1)
	for p := task.MinPriority; p <= task.MaxPriority; p++ {
		out[p-task.MinPriority] = a.PriorityCounts[p]
	}
	return out
}

// MaxCount returns the largest bucket across both histograms.
func (a Analytics) MaxCount() int {
	m := 0
	for _, c := range a.StateCounts {
		m = max(m, c)
	}
	for _, c := range a.PriorityCounts {
		m = max(m, c)
	}
	return m
}

// analyticsJSON is the wire shape; completion_rate is null without data.
type analyticsJSON struct {
	StateCounts    map[task.State]int `json:"state_counts"`
	PriorityCounts map[int]int        `json:"priority_counts"`
	Completed      int                `json:"completed"`
	Total          int                `json:"total"`
	CompletionRate *float64           `json:"completion_rate"`
}

// MarshalJSON implements json.Marshaler.
func (a Analytics) MarshalJSON() ([]byte, error) {
	out := analyticsJSON{
		StateCounts:    a.StateCounts,
		PriorityCounts: a.PriorityCounts,
		Completed:      a.Completed,
		Total:          a.Total,
	}
	if rate, err := a.CompletionRate(); err == nil {
		out.CompletionRate = &rate
	}
	return json.Marshal(out)
}
