package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/payments"
)

type PaymentsHTTP struct {
	Svc *payments.Service
}

func (h *PaymentsHTTP) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, "list_payment_methods", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentsHTTP) Add(c echo.Context) error {
	var req payments.Input
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	pm, err := h.Svc.Add(c.Request().Context(), principalFrom(c), req)
	if err != nil {
		return fail(c, "add_payment_method", err)
	}
	return c.JSON(http.StatusCreated, pm)
}

func (h *PaymentsHTTP) Delete(c echo.Context) error {
	if err := h.Svc.Delete(c.Request().Context(), principalFrom(c), c.Param("id")); err != nil {
		return fail(c, "delete_payment_method", err)
	}
	return c.NoContent(http.StatusNoContent)
}
