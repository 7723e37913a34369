package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/qtask/internal/logging"
	"github.com/fyrsmithlabs/qtask/internal/sanitize"
	"github.com/fyrsmithlabs/qtask/internal/session"
)

const sessionKey = "qtask.session"

// requestLogger logs one line per request after the response is written.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request.id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("session.id", c.Request().Header.Get(SessionHeader)),
			)
			return nil
		}
	}
}

// requireSession resolves the X-Session-ID header to a live session.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(SessionHeader)
		if id == "" {
			return apiError(http.StatusBadRequest, SessionHeader+" header is required")
		}
		if err := sanitize.ValidateSessionID(id); err != nil {
			return apiError(http.StatusBadRequest, "malformed "+SessionHeader+" header")
		}

		sess, err := s.registry.Get(id)
		if err != nil {
			return toHTTPError(err)
		}
		c.Set(sessionKey, sess)

		ctx := logging.WithSessionID(c.Request().Context(), sess.ID)
		ctx = logging.WithRequestID(ctx, c.Response().Header().Get(echo.HeaderXRequestID))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// sessionFrom returns the session stored by requireSession, or nil.
func sessionFrom(c echo.Context) *session.Session {
	sess, _ := c.Get(sessionKey).(*session.Session)
	return sess
}
