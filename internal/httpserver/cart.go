package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/cart"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *cart.Service
}

func (h *CartHTTP) Get(c echo.Context) error {
	out, err := h.Svc.Get(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, "get_cart", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_add_item")

	var req struct {
		MenuItemID     string `json:"menu_item_id"`
		ConfirmReplace bool   `json:"confirm_replace"`
	}
	if err := c.Bind(&req); err != nil || req.MenuItemID == "" {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "menu_item_id required")
	}

	out, err := h.Svc.AddItem(ctx, principalFrom(c), req.MenuItemID, req.ConfirmReplace)
	if err != nil {
		return fail(c, "add_to_cart", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart_set_quantity")

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		l.Warn("set_quantity_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "quantity required")
	}

	out, err := h.Svc.SetQuantity(ctx, principalFrom(c), c.Param("id"), *req.Quantity)
	if err != nil {
		return fail(c, "set_quantity", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	out, err := h.Svc.RemoveItem(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, "remove_from_cart", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	if err := h.Svc.Clear(c.Request().Context(), principalFrom(c)); err != nil {
		return fail(c, "clear_cart", err)
	}
	return c.NoContent(http.StatusNoContent)
}
