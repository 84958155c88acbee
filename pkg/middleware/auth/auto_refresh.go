package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/authclient"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
)

// Keys under which authenticated requests expose the caller.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxClaims = "claims"
)

type TokenRefresher interface {
	RefreshTokens(ctx context.Context, refreshToken, accessToken string) (*authclient.RefreshResponse, error)
}

// AutoRefreshMiddleware authenticates requests from the access cookie and,
// when it has expired, rotates the cookie pair through the user service
// before letting the request continue.
type AutoRefreshMiddleware struct {
	JWTSecret  []byte
	AuthClient TokenRefresher
}

func NewAutoRefreshMiddleware(secret []byte, authClient TokenRefresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{JWTSecret: secret, AuthClient: authClient}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.guard(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.guard(next, func(claims *tokens.AccessClaims) error {
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

// ClaimsFrom returns the claims stored by RequireAuth or RequireAdmin.
func ClaimsFrom(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(CtxClaims).(*tokens.AccessClaims)
	return claims, ok
}

func (m *AutoRefreshMiddleware) guard(next echo.HandlerFunc, validate ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		access, err := c.Cookie(jwthelp.AccessCookie)
		if err != nil || access.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(access.Value, m.JWTSecret)
		if err != nil {
			if claims, err = m.refresh(c, access.Value, err); err != nil {
				clearAuthCookies(c)
				return err
			}
		}

		if validate != nil {
			if err := validate(claims); err != nil {
				return err
			}
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)
		return next(c)
	}
}

// refresh trades the refresh cookie for a new pair when parseErr is an
// expiry, sets the rotated cookies, and returns the new access claims.
func (m *AutoRefreshMiddleware) refresh(c echo.Context, accessToken string, parseErr error) (*tokens.AccessClaims, error) {
	if !errors.Is(parseErr, jwt.ErrTokenExpired) {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	rc, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || rc.Value == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	resp, err := m.AuthClient.RefreshTokens(c.Request().Context(), rc.Value, accessToken)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
	}

	claims, err := tokens.AccessClaimsFromToken(resp.AccessToken, m.JWTSecret)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}

	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, resp.AccessToken, "/", time.Unix(resp.AccessExp, 0)))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, resp.RefreshToken, "/", time.Unix(resp.RefreshExp, 0)))
	return claims, nil
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
}
