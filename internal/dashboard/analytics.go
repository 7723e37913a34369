package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

const (
	chartHeight     = 8
	barWidth        = 7
	sparklineWidth  = 30
	sparklineHeight = 3
)

var priorityBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("201"))

// stateBars builds one bar per state in canonical order.
func stateBars(a projection.Analytics) []barchart.BarData {
	bars := make([]barchart.BarData, 0, len(task.States()))
	for _, s := range task.States() {
		bars = append(bars, barchart.BarData{
			Label: Truncate(s.String(), barWidth),
			Values: []barchart.BarValue{{
				Name:  s.String(),
				Value: float64(a.StateCounts[s]),
				Style: stateStyle(s),
			}},
		})
	}
	return bars
}

// priorityBars builds one bar per priority level, zeros included.
func priorityBars(a projection.Analytics) []barchart.BarData {
	hist := a.PriorityHistogram()
	bars := make([]barchart.BarData, 0, len(hist))
	for i, count := range hist {
		label := strconv.Itoa(task.MinPriority + i)
		bars = append(bars, barchart.BarData{
			Label: "P" + label,
			Values: []barchart.BarValue{{
				Name:  label,
				Value: float64(count),
				Style: priorityBarStyle,
			}},
		})
	}
	return bars
}

func drawBars(data []barchart.BarData) string {
	width := len(data)*(barWidth+1) + 1
	chart := barchart.New(width, chartHeight)
	chart.PushAll(data)
	chart.Draw()
	return chart.View()
}

// creationBuckets counts task creations in n equal time slices between the
// earliest and latest creation time.
func creationBuckets(tasks []task.Task, n int) []float64 {
	earliest, latest, ok := projection.CreatedRange(tasks)
	if !ok || n <= 0 {
		return nil
	}

	buckets := make([]float64, n)
	span := latest.Sub(earliest)
	for _, t := range tasks {
		idx := n - 1
		if span > 0 {
			idx = int(float64(t.CreatedAt.Sub(earliest)) / float64(span+time.Nanosecond) * float64(n))
		}
		buckets[clamp(idx, 0, n-1)]++
	}
	return buckets
}

func renderCreationSparkline(tasks []task.Task) string {
	data := creationBuckets(tasks, sparklineWidth)
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}
	spark.Draw()
	return labelStyle.Render(spark.View())
}

// renderAnalytics draws the histograms and completion metric.
func renderAnalytics(tasks []task.Task) string {
	a := projection.Analyze(tasks)

	completion := labelStyle.Render("Completion Rate: ") +
		valueStyle.Render(FormatCompletionRate(a)) + " " +
		dimStyle.Render(a.CompletionLabel())

	if a.Total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			dimStyle.Render("No analytics available - add tasks to analyze!"),
			completion,
		)
	}

	states := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("┃ State Distribution"),
		drawBars(stateBars(a)),
	)
	priorities := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("┃ Priority Distribution"),
		drawBars(priorityBars(a)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, states, "   ", priorities),
		"",
		completion,
		sectionStyle.Render("┃ Creation Timeline"),
		renderCreationSparkline(tasks),
	)
}
