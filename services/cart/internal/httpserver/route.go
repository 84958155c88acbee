package httpserver

import (
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
)

type Deps struct {
	CartHandler *CartHTTP
	JWTSecret   []byte
	AuthClient  middleware.TokenRefresher
}

func Register(e *echo.Echo, d *Deps) {
	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	cart := e.Group("/cart/:userId", authMW.RequireAuth, RequireOwner)
	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.GET("/price", d.CartHandler.Price)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PUT("/items/:itemId", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:itemId", d.CartHandler.RemoveItem)

	e.POST("/checkout", d.CartHandler.PlaceOrder, authMW.RequireAuth)
}
