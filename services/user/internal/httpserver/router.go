package httpserver

import (
	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	AccountHandler *AccountHTTP
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, localRefresher{svc: d.AuthHandler.Svc})

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/register/stub", d.AuthHandler.RegisterStub)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.POST("/mfa/send", d.AuthHandler.SendOTP)
	auth.POST("/mfa/verify", d.AuthHandler.VerifyOTP)
	auth.GET("/user/:userId", d.AuthHandler.GetUserDetails)
	auth.POST("/set-password", d.AuthHandler.SetPassword, authMW.RequireAuth)

	users := e.Group("/users/:userId", authMW.RequireAuth, RequireSelf)
	users.GET("/profile", d.AccountHandler.GetProfile)
	users.PUT("/profile", d.AccountHandler.PutProfile)
	users.GET("/addresses", d.AccountHandler.ListAddresses)
	users.POST("/addresses", d.AccountHandler.AddAddress)
	users.DELETE("/addresses/:id", d.AccountHandler.DeleteAddress)
	users.GET("/payments", d.AccountHandler.ListPaymentMethods)
	users.POST("/payments", d.AccountHandler.AddPaymentMethod)
	users.DELETE("/payments/:id", d.AccountHandler.DeletePaymentMethod)
	users.GET("/wishlist", d.AccountHandler.ListWishlist)
	users.POST("/wishlist", d.AccountHandler.AddToWishlist)
	users.DELETE("/wishlist/:productId", d.AccountHandler.RemoveFromWishlist)
	users.DELETE("/wishlist/item/:itemId", d.AccountHandler.RemoveWishlistItem)
	users.GET("/orders", d.AccountHandler.OrderHistory)
}
