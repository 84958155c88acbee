package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
)

// identify authenticates customer traffic, which always carries the session
// cookie through the gateway. Checkout and the user service call in without
// one and are served as internal callers.
func identify(authMW *middleware.AutoRefreshMiddleware) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := authMW.RequireAuth(next)
		return func(c echo.Context) error {
			if _, err := c.Cookie(jwthelp.AccessCookie); err != nil {
				return next(c)
			}
			return guarded(c)
		}
	}
}

// canAccess reports whether the caller may act on orders of customerID.
// Internal callers and admins always may.
func canAccess(c echo.Context, customerID uint) bool {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.IsAdmin() {
		return true
	}
	id, err := claims.UserID()
	return err == nil && id == customerID
}

// callerID is the authenticated customer, or 0 for internal and admin callers.
func callerID(c echo.Context) uint {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.IsAdmin() {
		return 0
	}
	id, _ := claims.UserID()
	return id
}

func forbidden() error {
	return httperr.New(http.StatusForbidden, "FORBIDDEN", "access to another customer's orders is not allowed")
}

// ownsOrder guards /:orderId routes.
func (h *OrderHTTP) ownsOrder(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "order.owner")

		id, err := orderID(c)
		if err != nil {
			return fail(l, "order_access_error", err)
		}
		order, err := h.Svc.GetOrder(ctx, id)
		if err != nil {
			return fail(l, "order_access_error", err)
		}
		if !canAccess(c, order.CustomerID) {
			return fail(l, "order_access_error", forbidden())
		}
		return next(c)
	}
}

// ownsUser guards /user/:userId.
func ownsUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("handler", "order.owner")

		userID, err := parseID(c, "userId")
		if err != nil {
			return fail(l, "order_access_error", err)
		}
		if !canAccess(c, userID) {
			return fail(l, "order_access_error", forbidden())
		}
		return next(c)
	}
}
