package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

// FormatCompletionRate renders the completion percentage, or "no data" for an
// empty snapshot.
func FormatCompletionRate(a projection.Analytics) string {
	rate, err := a.CompletionRate()
	if errors.Is(err, projection.ErrNoData) {
		return "no data"
	}
	return fmt.Sprintf("%.1f%%", rate)
}

// FormatPriority renders a priority as a five-step slider.
func FormatPriority(p int) string {
	filled := strings.Repeat("■", p)
	empty := strings.Repeat("□", task.MaxPriority-p)
	return fmt.Sprintf("◀ %s%s ▶ %d", filled, empty, p)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
