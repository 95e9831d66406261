package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/food_storefront/internal/admin"
	"github.com/Skotchmaster/food_storefront/internal/catalog"
	"github.com/Skotchmaster/food_storefront/internal/orders"
	"github.com/Skotchmaster/food_storefront/internal/users"
	"github.com/Skotchmaster/food_storefront/pkg/logging"
)

type AdminHTTP struct {
	Dashboard *admin.Dashboard
	Catalog   *catalog.Service
	Users     *users.Service
	Orders    *orders.Service
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	s, err := h.Dashboard.Stats(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, "admin_stats", err)
	}
	return c.JSON(http.StatusOK, s)
}

func bindBody(c echo.Context, op string, dst any) error {
	if err := c.Bind(dst); err != nil {
		logging.FromContext(c.Request().Context()).Warn(op+"_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

func (h *AdminHTTP) ListRestaurants(c echo.Context) error {
	out, err := h.Catalog.AdminRestaurants(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, "admin_list_restaurants", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHTTP) CreateRestaurant(c echo.Context) error {
	var in catalog.RestaurantInput
	if err := bindBody(c, "admin_create_restaurant", &in); err != nil {
		return err
	}
	r, err := h.Catalog.CreateRestaurant(c.Request().Context(), principalFrom(c), in)
	if err != nil {
		return fail(c, "admin_create_restaurant", err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *AdminHTTP) UpdateRestaurant(c echo.Context) error {
	var in catalog.RestaurantInput
	if err := bindBody(c, "admin_update_restaurant", &in); err != nil {
		return err
	}
	r, err := h.Catalog.UpdateRestaurant(c.Request().Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		return fail(c, "admin_update_restaurant", err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *AdminHTTP) DeleteRestaurant(c echo.Context) error {
	if err := h.Catalog.DeleteRestaurant(c.Request().Context(), principalFrom(c), c.Param("id")); err != nil {
		return fail(c, "admin_delete_restaurant", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListDishes(c echo.Context) error {
	out, err := h.Catalog.AdminDishes(c.Request().Context(), principalFrom(c), c.QueryParam("restaurant_id"))
	if err != nil {
		return fail(c, "admin_list_dishes", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHTTP) CreateDish(c echo.Context) error {
	var in catalog.DishInput
	if err := bindBody(c, "admin_create_dish", &in); err != nil {
		return err
	}
	d, err := h.Catalog.CreateDish(c.Request().Context(), principalFrom(c), in)
	if err != nil {
		return fail(c, "admin_create_dish", err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *AdminHTTP) UpdateDish(c echo.Context) error {
	var in catalog.DishInput
	if err := bindBody(c, "admin_update_dish", &in); err != nil {
		return err
	}
	d, err := h.Catalog.UpdateDish(c.Request().Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		return fail(c, "admin_update_dish", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *AdminHTTP) DeleteDish(c echo.Context) error {
	if err := h.Catalog.DeleteDish(c.Request().Context(), principalFrom(c), c.Param("id")); err != nil {
		return fail(c, "admin_delete_dish", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	offset, limit := pageFrom(c)
	list, total, err := h.Users.List(c.Request().Context(), principalFrom(c), offset, limit)
	if err != nil {
		return fail(c, "admin_list_users", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list, "total": total})
}

func (h *AdminHTTP) CreateUser(c echo.Context) error {
	var in users.Input
	if err := bindBody(c, "admin_create_user", &in); err != nil {
		return err
	}
	u, err := h.Users.Create(c.Request().Context(), principalFrom(c), in)
	if err != nil {
		return fail(c, "admin_create_user", err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *AdminHTTP) UpdateUser(c echo.Context) error {
	var in users.Input
	if err := bindBody(c, "admin_update_user", &in); err != nil {
		return err
	}
	u, err := h.Users.Update(c.Request().Context(), principalFrom(c), c.Param("id"), in)
	if err != nil {
		return fail(c, "admin_update_user", err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	if err := h.Users.Delete(c.Request().Context(), principalFrom(c), c.Param("id")); err != nil {
		return fail(c, "admin_delete_user", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	out, err := h.Orders.AdminList(c.Request().Context(), principalFrom(c))
	if err != nil {
		return fail(c, "admin_list_orders", err)
	}
	return c.JSON(http.StatusOK, out)
}
