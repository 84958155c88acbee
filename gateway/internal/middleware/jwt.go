package middleware

import (
	"errors"
	"net/http"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	// Identity headers forwarded to the services behind the gateway.
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// Middleware admits requests carrying a valid access cookie and forwards the
// caller identity upstream. A token that merely expired is let through when a
// refresh cookie is present so the owning service can rotate the pair.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header
			h.Del(HeaderUserID)
			h.Del(HeaderUserRole)

			ck, err := c.Cookie(jwthelp.AccessCookie)
			if err != nil || ck.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := tokens.AccessClaimsFromToken(ck.Value, secret)
			switch {
			case err == nil:
			case errors.Is(err, jwt.ErrTokenExpired) && hasCookie(c, jwthelp.RefreshCookie):
				return next(c)
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			if _, err := claims.UserID(); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "token subject is not a customer id")
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
			h.Set(HeaderUserID, claims.Subject)
			h.Set(HeaderUserRole, claims.Role)

			return next(c)
		}
	}
}

func hasCookie(c echo.Context, name string) bool {
	ck, err := c.Cookie(name)
	return err == nil && ck.Value != ""
}

// RequireRole must run after Middleware.
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing role")
			}
			if !slices.Contains(allowed, role) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
