package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fyrsmithlabs/qtask/internal/session"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

// apiError builds an echo error with an ErrorResponse body.
func apiError(status int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(status, ErrorResponse{Error: msg})
}

// toHTTPError maps domain errors to API errors.
func toHTTPError(err error) error {
	var verr *task.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Field:   verr.Field,
			Message: verr.Message,
		})
	case errors.Is(err, task.ErrNotFound):
		return apiError(http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return apiError(http.StatusNotFound, "session not found")
	case errors.Is(err, session.ErrTooManySessions):
		return apiError(http.StatusServiceUnavailable, "session limit reached")
	}
	return apiError(http.StatusInternalServerError, "internal error")
}
