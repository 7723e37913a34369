package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

// renderGrid draws one card per task with the selected card highlighted.
func renderGrid(tasks []task.Task, cursor int, bar progress.Model) string {
	view := projection.Grid(tasks)
	if view.Empty {
		return dimStyle.Render("No tasks in quantum space yet. Add some tasks!")
	}

	cards := make([]string, 0, len(view.Cards))
	for _, card := range view.Cards {
		cards = append(cards, renderCard(card, card.Position == cursor, bar))
	}
	return strings.Join(cards, "\n")
}

func renderCard(card projection.Card, selected bool, bar progress.Model) string {
	marker := "  "
	style := cardStyle
	if selected {
		marker = labelStyle.Render("▸ ")
		style = selectedCardStyle
	}

	title := valueStyle.Render(fmt.Sprintf("#%d %s", card.DisplayIndex, card.Task.Description))
	if card.Task.Completed {
		title += " " + successStyle.Render("✓")
	}

	details := labelStyle.Render("State: ") + stateStyle(card.Task.State).Render(card.Task.State.String()) +
		dimStyle.Render("   Created: ") + dimStyle.Render(card.Created)

	priority := labelStyle.Render(fmt.Sprintf("Priority: %d ", card.Task.Priority)) +
		bar.ViewAs(card.PriorityFraction)

	body := style.Render(lipgloss.JoinVertical(lipgloss.Left, title, details, priority))
	return lipgloss.JoinHorizontal(lipgloss.Top, marker, body)
}
