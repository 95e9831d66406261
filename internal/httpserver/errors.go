package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/domain"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConfirmationRequired),
		errors.Is(err, domain.ErrCheckoutInProgress),
		errors.Is(err, domain.ErrForbiddenTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSettlementFailed):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

var publicMessage = map[int]string{
	http.StatusBadRequest:      "invalid request",
	http.StatusUnauthorized:    "invalid email or password",
	http.StatusForbidden:       "you don't have enough rights",
	http.StatusNotFound:        "not found",
	http.StatusConflict:        "conflict",
	http.StatusPaymentRequired: "payment could not be settled",
}

// fail logs err under op and turns it into an HTTP error. Client errors carry
// the service message; server errors never leak it.
func fail(c echo.Context, op string, err error) error {
	l := logging.FromContext(c.Request().Context())
	code := statusOf(err)

	if code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", code, "error", err)
		return echo.NewHTTPError(code, "internal server error")
	}

	l.Warn(op+"_error", "status", code, "error", err)
	msg := publicMessage[code]
	if code == http.StatusBadRequest || code == http.StatusConflict {
		msg = err.Error()
	}
	return echo.NewHTTPError(code, msg)
}
