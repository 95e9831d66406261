package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/identity"
	"github.com/Skotchmaster/food_storefront/internal/policy"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

const ctxIdentity = "identity"

type SessionConfig struct {
	Secure bool
	TTL    time.Duration
}

// Session resolves the identity of every request from its cookie before any
// handler runs, so handlers never observe the loading state.
func Session(svc *identity.Service, cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			store := svc.NewStore(NewCookieStorage(c, cfg.Secure, cfg.TTL))
			store.Restore(ctx)
			c.Set(ctxIdentity, store)

			if p := store.Current(); p != nil {
				l := logging.FromContext(ctx).With("user_id", p.ID, "role", string(p.Role))
				c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
			}
			return next(c)
		}
	}
}

func identityFrom(c echo.Context) *identity.Store {
	st, _ := c.Get(ctxIdentity).(*identity.Store)
	return st
}

// principalFrom is nil for anonymous requests.
func principalFrom(c echo.Context) *domain.Principal {
	st := identityFrom(c)
	if st == nil {
		return nil
	}
	return st.Current()
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if principalFrom(c) == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := principalFrom(c)
		if p == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "login required")
		}
		if !policy.CanAccessAdminArea(p) {
			logging.FromContext(c.Request().Context()).Warn("admin_area_denied", "status", 403)
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
