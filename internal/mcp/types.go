package mcp

import (
	"strconv"
	"time"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

type emptyInput struct{}

type taskAddInput struct {
	Description string `json:"description" jsonschema:"Task description, 1-500 characters after trimming"`
	Priority    *int   `json:"priority,omitempty" jsonschema:"Priority from 1 (low) to 5 (high), default 3"`
}

type taskCompleteInput struct {
	Index int `json:"index" jsonschema:"0-based position of the task, as listed by task_list"`
}

type toolSearchInput struct {
	Query    string `json:"query" jsonschema:"Substring or regular expression matched against tool names, descriptions and keywords"`
	Category string `json:"category,omitempty" jsonschema:"Restrict results to a category: task or view"`
}

type taskOutput struct {
	Index       int    `json:"index"`
	ID          string `json:"id"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	Completed   bool   `json:"completed"`
}

type taskListOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type taskRandomizeOutput struct {
	Randomized int `json:"randomized"`
}

type cardOutput struct {
	Position         int     `json:"position"`
	DisplayIndex     int     `json:"display_index"`
	Description      string  `json:"description"`
	State            string  `json:"state"`
	Priority         int     `json:"priority"`
	PriorityFraction float64 `json:"priority_fraction"`
	Created          string  `json:"created"`
	Completed        bool    `json:"completed"`
}

type gridOutput struct {
	Cards []cardOutput `json:"cards"`
	Empty bool         `json:"empty"`
}

type pointOutput struct {
	ID    string  `json:"id"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Z     string  `json:"z"`
	Color string  `json:"color"`
	Hex   string  `json:"hex"`
	Size  float64 `json:"size"`
	Label string  `json:"label"`
}

type scatterOutput struct {
	Points []pointOutput `json:"points"`
	Empty  bool          `json:"empty"`
}

type analyticsOutput struct {
	StateCounts     map[string]int `json:"state_counts"`
	PriorityCounts  map[string]int `json:"priority_counts"`
	Completed       int            `json:"completed"`
	Total           int            `json:"total"`
	CompletionRate  *float64       `json:"completion_rate,omitempty"`
	CompletionLabel string         `json:"completion_label"`
}

type searchHit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Score       int    `json:"score"`
	MatchReason string `json:"match_reason"`
}

type toolSearchOutput struct {
	Tools []searchHit `json:"tools"`
}

func toTaskOutput(index int, t task.Task) taskOutput {
	return taskOutput{
		Index:       index,
		ID:          t.ID,
		Description: t.Description,
		Priority:    t.Priority,
		State:       t.State.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		Completed:   t.Completed,
	}
}

func toGridOutput(v projection.GridView) gridOutput {
	cards := make([]cardOutput, len(v.Cards))
	for i, c := range v.Cards {
		cards[i] = cardOutput{
			Position:         c.Position,
			DisplayIndex:     c.DisplayIndex,
			Description:      c.Task.Description,
			State:            c.Task.State.String(),
			Priority:         c.Task.Priority,
			PriorityFraction: c.PriorityFraction,
			Created:          c.Created,
			Completed:        c.Task.Completed,
		}
	}
	return gridOutput{Cards: cards, Empty: v.Empty}
}

func toScatterOutput(v projection.ScatterView) scatterOutput {
	points := make([]pointOutput, len(v.Points))
	for i, p := range v.Points {
		points[i] = pointOutput{
			ID:    p.ID,
			X:     p.X,
			Y:     p.Y,
			Z:     p.Z.Format(time.RFC3339),
			Color: p.Color.String(),
			Hex:   p.Hex,
			Size:  p.Size,
			Label: p.Label,
		}
	}
	return scatterOutput{Points: points, Empty: v.Empty}
}

func toAnalyticsOutput(a projection.Analytics) analyticsOutput {
	out := analyticsOutput{
		StateCounts:     make(map[string]int, len(a.StateCounts)),
		PriorityCounts:  make(map[string]int, len(a.PriorityCounts)),
		Completed:       a.Completed,
		Total:           a.Total,
		CompletionLabel: a.CompletionLabel(),
	}
	for s, n := range a.StateCounts {
		out.StateCounts[s.String()] = n
	}
	for p, n := range a.PriorityCounts {
		out.PriorityCounts[strconv.Itoa(p)] = n
	}
	if rate, err := a.CompletionRate(); err == nil {
		out.CompletionRate = &rate
	}
	return out
}
