package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/slimgen/logger"
)

// RequestLogger logs one line per request. Requests to skipPaths are not
// logged.
func RequestLogger(log logger.Logger, skipPaths ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if _, ok := skip[path]; ok {
				return next(c)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}
			latency := time.Since(start)
			status := c.Response().Status

			event := eventFor(log, status)
			if err != nil {
				event = event.Err(err)
			}
			event.
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Str("method", c.Request().Method).
				Str("path", path).
				Int("status", status).
				Dur("latency", latency).
				Str("client", c.RealIP()).
				Msg(actionMessage(c.Request().Method, path, latency, status))
			return nil
		}
	}
}

func eventFor(log logger.Logger, status int) logger.LogEvent {
	switch {
	case status >= http.StatusInternalServerError:
		return log.Error()
	case status >= http.StatusBadRequest:
		return log.Warn()
	default:
		return log.Debug()
	}
}

// actionMessage renders "GET /swagger/swagger.json completed in 1ms with status 2xx".
func actionMessage(method, path string, latency time.Duration, status int) string {
	return fmt.Sprintf("%s %s completed in %s with status %dxx", method, path, latency.Round(time.Microsecond), status/100)
}
