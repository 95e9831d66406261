package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/food_storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/food_storefront/pkg/middleware/logging"
)

var probePaths = []string{"/health/live", "/health/ready"}

// CSRFConfig exempts probes and the endpoints that start a session, since a
// fresh client has no token to echo yet.
func CSRFConfig(secure bool) csrf.Config {
	cfg := csrf.DefaultConfig()
	cfg.Secure = secure
	cfg.SkipPaths = append(append([]string{}, probePaths...), "/api/v1/auth/login", "/api/v1/auth/register")
	return cfg
}

// UseMiddleware installs the middleware every request passes before routing.
func UseMiddleware(e *echo.Echo, logger *slog.Logger, csrfCfg csrf.Config) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLoggerWithConfig(loggingmw.Config{
		Logger:     logger,
		QuietPaths: probePaths,
	}))
	e.Use(middleware.CORS())
	e.Use(csrf.Middleware(csrfCfg))
}
