package http

import (
	"time"

	"github.com/fyrsmithlabs/qtask/internal/task"
)

// SessionHeader carries the session ID on every task and view route.
const SessionHeader = "X-Session-ID"

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Sessions int    `json:"sessions"`
}

// SessionResponse is the response body for POST /api/v1/sessions.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AddTaskRequest is the request body for POST /api/v1/tasks.
// A missing priority defaults to task.DefaultPriority.
type AddTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Priority    *int   `json:"priority" validate:"omitempty,min=1,max=5"`
}

// TaskListResponse is the response body for GET /api/v1/tasks.
type TaskListResponse struct {
	Tasks []task.Task `json:"tasks"`
	Count int         `json:"count"`
}

// RandomizeResponse is the response body for POST /api/v1/tasks/randomize.
type RandomizeResponse struct {
	Randomized int `json:"randomized"`
}

// ErrorResponse is the body of every API error raised by the handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}
