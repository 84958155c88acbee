package httpserver

import "github.com/labstack/echo/v4"

type Deps struct {
	PaymentHandler *PaymentHTTP
}

// Register mounts the payment routes. They are called service to service by
// checkout; end users reach them only through the gateway.
func Register(e *echo.Echo, d *Deps) {
	payments := e.Group("/api/payments")
	payments.POST("", d.PaymentHandler.MakePayment)
	payments.POST("/intents", d.PaymentHandler.CreateIntent)
	payments.POST("/confirm", d.PaymentHandler.Confirm)
	payments.GET("/order/:orderId", d.PaymentHandler.ListByOrder)
	payments.GET("/:paymentId", d.PaymentHandler.GetPayment)
}
