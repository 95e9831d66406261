package loggingmw

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type Config struct {
	Logger *slog.Logger

	// QuietPaths are only logged when they fail. Probes hit them constantly.
	QuietPaths []string
}

// RequestLoggerWithConfig binds a request scoped logger into the context and
// writes one line per request once the error handler has set the status.
func RequestLoggerWithConfig(cfg Config) echo.MiddlewareFunc {
	quiet := make(map[string]struct{}, len(cfg.QuietPaths))
	for _, p := range cfg.QuietPaths {
		quiet[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := cfg.Logger.With(
				"method", req.Method,
				"route", c.Path(),
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid := requestID(c); rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status
			elapsed := time.Since(start).Milliseconds()

			// handlers may have enriched the logger, e.g. with the user id
			l = logging.FromContext(c.Request().Context())

			_, isQuiet := quiet[req.URL.Path]
			switch {
			case status >= http.StatusInternalServerError:
				l.Error("request_failed", "status", status, "duration_ms", elapsed, "error", err)
			case status >= http.StatusBadRequest:
				l.Warn("request_rejected", "status", status, "duration_ms", elapsed)
			case !isQuiet:
				l.Info("request_completed", "status", status, "duration_ms", elapsed, "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func requestID(c echo.Context) string {
	if rid := c.Request().Header.Get(echo.HeaderXRequestID); rid != "" {
		return rid
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
