package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

// depthShare is the fraction of each canvas axis given to the time (Z) axis
// in the oblique projection.
const depthShare = 0.3

// Scatter canvases never shrink below this size.
const (
	minCanvasWidth  = 8
	minCanvasHeight = 4
)

// newScatterCanvas returns a canvas of at least the minimum size with every
// cell set to a dim background dot.
func newScatterCanvas(width, height int) canvas.Model {
	c := canvas.New(max(width, minCanvasWidth), max(height, minCanvasHeight))
	for y := 0; y < c.Height(); y++ {
		for x := 0; x < c.Width(); x++ {
			c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, '·', dimStyle)
		}
	}
	return c
}

// project maps a point onto a width x height grid with an oblique projection:
// priority runs left to right, position runs top to bottom and creation time
// recedes diagonally toward the upper right.
func project(p projection.Point, positions int, earliest, latest time.Time, width, height int) canvas.Point {
	x := float64(p.X-task.MinPriority) / float64(task.MaxPriority-task.MinPriority)

	y := 0.0
	if positions > 1 {
		y = float64(p.Y) / float64(positions-1)
	}

	z := 0.0
	if span := latest.Sub(earliest); span > 0 {
		z = float64(p.Z.Sub(earliest)) / float64(span)
	}

	w := float64(width - 1)
	h := float64(height - 1)
	col := int(x*w*(1-depthShare) + z*w*depthShare + 0.5)
	row := int(y*h*(1-depthShare) + (1-z)*h*depthShare + 0.5)
	return canvas.Point{X: clamp(col, 0, width-1), Y: clamp(row, 0, height-1)}
}

// plotPoints draws each point in its state color; later points overwrite
// earlier ones on collision.
func plotPoints(c *canvas.Model, points []projection.Point, earliest, latest time.Time) {
	for _, p := range points {
		at := project(p, len(points), earliest, latest, c.Width(), c.Height())
		c.SetRuneWithStyle(at, sizeGlyph(p.Size), stateStyle(p.Color))
	}
}

// sizeGlyph picks a marker that grows with the normalized point size.
func sizeGlyph(size float64) rune {
	switch {
	case size >= 0.8:
		return '●'
	case size >= 0.6:
		return '◉'
	case size >= 0.4:
		return '○'
	default:
		return '∘'
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// renderScatter draws the quantum task space for the current snapshot.
func renderScatter(tasks []task.Task, width, height int) string {
	view := projection.Scatter(tasks)
	if view.Empty {
		return dimStyle.Render("Quantum space empty - visualize tasks by adding some!")
	}

	earliest, latest, _ := projection.CreatedRange(tasks)
	c := newScatterCanvas(width, height)
	plotPoints(&c, view.Points, earliest, latest)

	axes := dimStyle.Render(fmt.Sprintf("x: priority %d→%d   y: task #1→#%d   z: time %s→%s",
		task.MinPriority, task.MaxPriority, len(view.Points),
		earliest.Format("15:04:05"), latest.Format("15:04:05")))

	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Quantum Task Space"),
		canvasStyle.Render(c.View()),
		axes,
		renderLegend(),
		renderPointList(view.Points),
	)
}

func renderLegend() string {
	parts := make([]string, 0, len(task.States()))
	for _, s := range task.States() {
		parts = append(parts, stateStyle(s).Render("● "+s.String()))
	}
	return strings.Join(parts, "   ")
}

// renderPointList stands in for hover data: each point's label and coordinates.
func renderPointList(points []projection.Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(stateStyle(p.Color).Render(string(sizeGlyph(p.Size))))
		b.WriteString(" ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("#%d", p.Y+1)))
		b.WriteString(" ")
		b.WriteString(Truncate(p.Label, 40))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (p%d, %s)", p.X, p.Z.Format(projection.CreatedLayout))))
	}
	return b.String()
}
