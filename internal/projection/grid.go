package projection

import (
	"time"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

// CreatedLayout formats card timestamps.
const CreatedLayout = "2006-01-02 15:04"

// Card is one grid entry.
type Card struct {
	Task task.Task `json:"task"`

	// Position is the 0-based index used to complete the task.
	Position int `json:"position"`

	// DisplayIndex is the 1-based number shown to users.
	DisplayIndex int `json:"display_index"`

	// PriorityFraction is priority/MaxPriority, for progress bars.
	PriorityFraction float64 `json:"priority_fraction"`

	Created string `json:"created"`
}

// GridView is the card list.
type GridView struct {
	Cards []Card `json:"cards"`
	Empty bool   `json:"empty"`
}

// Grid projects tasks into cards in insertion order.
func Grid(tasks []task.Task) GridView {
	if len(tasks) == 0 {
		return GridView{Cards: []Card{}, Empty: true}
	}

	cards := make([]Card, len(tasks))
	for i, t := range tasks {
		cards[i] = Card{
			Task:             t,
			Position:         i,
			DisplayIndex:     i + 1,
			PriorityFraction: priorityFraction(t.Priority),
			Created:          t.CreatedAt.Format(CreatedLayout),
		}
	}
	return GridView{Cards: cards}
}

func priorityFraction(priority int) float64 {
	return float64(priority) / float64(task.MaxPriority)
}

// CreatedRange returns the earliest and latest creation times.
// ok is false for an empty input.
func CreatedRange(tasks []task.Task) (earliest, latest time.Time, ok bool) {
	if len(tasks) == 0 {
		return time.Time{}, time.Time{}, false
	}
	earliest, latest = tasks[0].CreatedAt, tasks[0].CreatedAt
	for _, t := range tasks[1:] {
		if t.CreatedAt.Before(earliest) {
			earliest = t.CreatedAt
		}
		if t.CreatedAt.After(latest) {
			latest = t.CreatedAt
		}
	}
	return earliest, latest, true
}
