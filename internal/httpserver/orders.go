package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/internal/orders"
	"github.com/Skotchmaster/food_storefront/internal/payments"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type OrdersHTTP struct {
	Svc      *orders.Service
	Payments *payments.Service
}

// CheckoutSummary returns the priced cart and the methods the principal can pay with.
func (h *OrdersHTTP) CheckoutSummary(c echo.Context) error {
	ctx := c.Request().Context()
	p := principalFrom(c)

	q, err := h.Svc.Quote(ctx, p)
	if err != nil {
		return fail(c, "checkout_summary", err)
	}
	methods, err := h.Payments.ForCheckout(ctx, p)
	if err != nil {
		return fail(c, "checkout_summary", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"quote":           q,
		"payment_methods": methods,
	})
}

func (h *OrdersHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var req struct {
		PaymentMethodID string `json:"payment_method_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	o, err := h.Svc.Checkout(ctx, principalFrom(c), req.PaymentMethodID)
	if err != nil {
		if o != nil && errors.Is(err, domain.ErrSettlementFailed) {
			l.Warn("checkout_error", "status", http.StatusPaymentRequired, "order_id", o.ID, "error", err)
			return c.JSON(http.StatusPaymentRequired, echo.Map{
				"message": "payment could not be settled, the order stays pending",
				"order":   o,
			})
		}
		return fail(c, "checkout", err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OrdersHTTP) List(c echo.Context) error {
	out, err := h.Svc.List(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, "list_orders", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrdersHTTP) Cancel(c echo.Context) error {
	o, err := h.Svc.Cancel(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, "cancel_order", err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrdersHTTP) Receipt(c echo.Context) error {
	png, err := h.Svc.Receipt(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, "order_receipt", err)
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
