package httpserver

import (
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
	AuthClient   middleware.TokenRefresher
}

// Register mounts the order routes. Requests carrying a session cookie are
// authenticated and limited to the caller's own orders; calls from checkout
// and the user service carry none. Status changes need an admin token.
func Register(e *echo.Echo, d *Deps) {
	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)
	h := d.OrderHandler

	orders := e.Group("/api/orders", identify(authMW))
	orders.POST("", h.PlaceOrder)
	orders.POST("/create", h.CreateOrder)
	orders.GET("/user/:userId", h.ListByUser, ownsUser)
	orders.GET("/:orderId", h.GetOrder, h.ownsOrder)
	orders.GET("/:orderId/track", h.TrackOrder, h.ownsOrder)
	orders.PUT("/:orderId", h.UpdateOrder, h.ownsOrder)
	orders.DELETE("/:orderId", h.CancelOrder, h.ownsOrder)

	admin := orders.Group("", authMW.RequireAdmin)
	admin.PATCH("/:orderId/status", h.UpdateStatus)
}
