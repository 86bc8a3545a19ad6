package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Register installs the middleware every route shares: panic recovery,
// request ids and the access log.
func Register(e *echo.Echo, log *slog.Logger) {
	// Recover first so a panic anywhere below still produces a 500 and
	// an access log line.
	e.Use(echomw.Recover())
	// Reuse an incoming X-Request-ID, otherwise mint a UUID.
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(Slog(log))
}

// Slog writes one structured line per request.
func Slog(log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			// Let echo's error handler write the response now so the
			// logged status is the one the client receives.
			if err != nil {
				c.Error(err)
			}
			log.Info("http",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", c.RealIP(),
				"subject", Subject(c),
			)
			return nil
		}
	}
}
