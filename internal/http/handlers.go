package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/projection"
	"github.com/fyrsmithlabs/qtask/internal/task"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Version:  s.config.Version,
		Sessions: s.registry.Len(),
	})
}

func (s *Server) handleCreateSession(c echo.Context) error {
	sess, err := s.registry.Create()
	if err != nil {
		s.logger.Warn("session rejected", zap.Error(err))
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, SessionResponse{SessionID: sess.ID, CreatedAt: sess.CreatedAt})
}

func (s *Server) handleListTasks(c echo.Context) error {
	tasks := sessionFrom(c).Store.All()
	return c.JSON(http.StatusOK, TaskListResponse{Tasks: tasks, Count: len(tasks)})
}

func (s *Server) handleAddTask(c echo.Context) error {
	var req AddTaskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid add task request", zap.Error(err))
		return apiError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return toHTTPError(err)
	}

	priority := task.DefaultPriority
	if req.Priority != nil {
		priority = *req.Priority
	}

	t, err := task.New(req.Description, priority)
	if err != nil {
		return toHTTPError(err)
	}

	sessionFrom(c).Store.Add(t)
	s.log.Debug(c.Request().Context(), "task added", zap.String("task.id", t.ID), zap.Int("priority", t.Priority))
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleComplete(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return apiError(http.StatusBadRequest, "index must be an integer")
	}

	t, err := sessionFrom(c).Store.Complete(index)
	if err != nil {
		return toHTTPError(err)
	}

	s.log.Debug(c.Request().Context(), "task completed", zap.String("task.id", t.ID), zap.Int("index", index))
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleRandomize(c echo.Context) error {
	n := sessionFrom(c).Store.RandomizeStates()
	s.log.Debug(c.Request().Context(), "states randomized", zap.Int("count", n))
	return c.JSON(http.StatusOK, RandomizeResponse{Randomized: n})
}

func (s *Server) handleGrid(c echo.Context) error {
	return c.JSON(http.StatusOK, projection.Grid(sessionFrom(c).Store.All()))
}

func (s *Server) handleScatter(c echo.Context) error {
	return c.JSON(http.StatusOK, projection.Scatter(sessionFrom(c).Store.All()))
}

func (s *Server) handleAnalytics(c echo.Context) error {
	return c.JSON(http.StatusOK, projection.Analyze(sessionFrom(c).Store.All()))
}
