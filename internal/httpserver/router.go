package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_storefront/internal/identity"
	"github.com/Skotchmaster/food_storefront/pkg/db"
)

type Deps struct {
	DB       *gorm.DB
	Identity *identity.Service
	Session  SessionConfig

	AuthHandler     *AuthHTTP
	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	OrdersHandler   *OrdersHTTP
	PaymentsHandler *PaymentsHTTP
	AdminHandler    *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB != nil {
			if err := db.Ping(c.Request().Context(), d.DB); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api/v1")
	api.Use(Session(d.Identity, d.Session))

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me)

	// anonymous callers browse every restaurant
	api.GET("/restaurants", d.CatalogHandler.ListRestaurants)
	api.GET("/restaurants/:id", d.CatalogHandler.GetRestaurant)
	api.GET("/restaurants/:id/menu", d.CatalogHandler.Menu)

	private := api.Group("")
	private.Use(RequireAuth)

	private.GET("/cart", d.CartHandler.Get)
	private.POST("/cart/items", d.CartHandler.AddItem)
	private.PATCH("/cart/items/:id", d.CartHandler.SetQuantity)
	private.DELETE("/cart/items/:id", d.CartHandler.RemoveItem)
	private.DELETE("/cart", d.CartHandler.Clear)

	private.GET("/checkout", d.OrdersHandler.CheckoutSummary)
	private.POST("/checkout", d.OrdersHandler.Checkout)

	private.GET("/orders", d.OrdersHandler.List)
	private.POST("/orders/:id/cancel", d.OrdersHandler.Cancel)
	private.GET("/orders/:id/receipt", d.OrdersHandler.Receipt)

	private.GET("/payment-methods", d.PaymentsHandler.List)
	private.POST("/payment-methods", d.PaymentsHandler.Add)
	private.DELETE("/payment-methods/:id", d.PaymentsHandler.Delete)

	admin := api.Group("/admin")
	admin.Use(RequireAdmin)

	admin.GET("/stats", d.AdminHandler.Stats)

	admin.GET("/restaurants", d.AdminHandler.ListRestaurants)
	admin.POST("/restaurants", d.AdminHandler.CreateRestaurant)
	admin.PUT("/restaurants/:id", d.AdminHandler.UpdateRestaurant)
	admin.DELETE("/restaurants/:id", d.AdminHandler.DeleteRestaurant)

	admin.GET("/dishes", d.AdminHandler.ListDishes)
	admin.POST("/dishes", d.AdminHandler.CreateDish)
	admin.PUT("/dishes/:id", d.AdminHandler.UpdateDish)
	admin.DELETE("/dishes/:id", d.AdminHandler.DeleteDish)

	admin.GET("/users", d.AdminHandler.ListUsers)
	admin.POST("/users", d.AdminHandler.CreateUser)
	admin.PUT("/users/:id", d.AdminHandler.UpdateUser)
	admin.DELETE("/users/:id", d.AdminHandler.DeleteUser)

	admin.GET("/orders", d.AdminHandler.ListOrders)
	admin.POST("/orders/:id/cancel", d.OrdersHandler.Cancel)
}
