package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/identity"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type AuthHTTP struct{}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := identityFrom(c).Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(c, "login", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req identity.RegisterInput
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	p, err := identityFrom(c).Register(ctx, req)
	if err != nil {
		return fail(c, "register", err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	identityFrom(c).Logout(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me reports the session state; an anonymous session is not an error.
func (h *AuthHTTP) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, identityFrom(c).Snapshot())
}
