package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/catalog"
)

type CatalogHTTP struct {
	Svc *catalog.Service
}

func (h *CatalogHTTP) ListRestaurants(c echo.Context) error {
	out, err := h.Svc.ListRestaurants(c.Request().Context(), principalFrom(c), c.QueryParam("q"))
	if err != nil {
		return fail(c, "list_restaurants", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHTTP) GetRestaurant(c echo.Context) error {
	r, err := h.Svc.GetRestaurant(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, "get_restaurant", err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *CatalogHTTP) Menu(c echo.Context) error {
	items, err := h.Svc.Menu(c.Request().Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		return fail(c, "get_menu", err)
	}
	return c.JSON(http.StatusOK, items)
}
