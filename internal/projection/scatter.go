package projection

import (
	"time"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

// Palette maps each state to its display color.
var Palette = map[task.State]string{
	task.StateSuperposition: "#ff00cc",
	task.StateEntangled:     "#00ffff",
	task.StateCollapsed:     "#33ff33",
}

// Point is one task placed in priority × position × time space.
type Point struct {
	ID    string     `json:"id"`
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Z     time.Time  `json:"z"`
	Color task.State `json:"color"`
	Hex   string     `json:"hex"`

	// Size is priority/MaxPriority, the same scale as the grid progress bars.
	Size float64 `json:"size"`

	Label string `json:"label"`
}

// ScatterView is the 3D point cloud.
type ScatterView struct {
	Points []Point `json:"points"`
	Empty  bool    `json:"empty"`
}

// Scatter projects one point per task.
func Scatter(tasks []task.Task) ScatterView {
	if len(tasks) == 0 {
		return ScatterView{Points: []Point{}, Empty: true}
	}

	points := make([]Point, len(tasks))
	for i, t := range tasks {
		points[i] = Point{
			ID:    t.ID,
			X:     t.Priority,
			Y:     i,
			Z:     t.CreatedAt,
			Color: t.State,
			Hex:   Palette[t.State],
			Size:  priorityFraction(t.Priority),
			Label: t.Description,
		}
	}
	return ScatterView{Points: points}
}
