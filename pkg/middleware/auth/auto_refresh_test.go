package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/oss_shop/pkg/authclient"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func accessToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "17",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return tok
}

type fakeRefresher struct {
	resp *authclient.RefreshResponse
	err  error
}

func (f fakeRefresher) RefreshTokens(context.Context, string, string) (*authclient.RefreshResponse, error) {
	return f.resp, f.err
}

func serve(t *testing.T, refresher TokenRefresher, admin bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	mw := NewAutoRefreshMiddleware(secret, refresher)
	guard := mw.RequireAuth
	if admin {
		guard = mw.RequireAdmin
	}

	e := echo.New()
	e.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	}, guard)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	valid := &http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, tokens.RoleUser, time.Now().Add(time.Minute))}

	rec := serve(t, fakeRefresher{}, false, valid)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "17", rec.Body.String())

	rec = serve(t, fakeRefresher{}, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, fakeRefresher{}, false, &http.Cookie{Name: jwthelp.AccessCookie, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	user := &http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, tokens.RoleUser, time.Now().Add(time.Minute))}
	admin := &http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, tokens.RoleAdmin, time.Now().Add(time.Minute))}

	assert.Equal(t, http.StatusForbidden, serve(t, fakeRefresher{}, true, user).Code)
	assert.Equal(t, http.StatusOK, serve(t, fakeRefresher{}, true, admin).Code)
}

func TestRequireAuth_RefreshesExpiredToken(t *testing.T) {
	t.Parallel()

	expired := &http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, tokens.RoleUser, time.Now().Add(-time.Minute))}
	refresh := &http.Cookie{Name: jwthelp.RefreshCookie, Value: "refresh"}

	fresh := accessToken(t, tokens.RoleUser, time.Now().Add(15*time.Minute))
	ok := fakeRefresher{resp: &authclient.RefreshResponse{
		AccessToken:  fresh,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(15 * time.Minute).Unix(),
		RefreshExp:   time.Now().Add(time.Hour).Unix(),
	}}

	rec := serve(t, ok, false, expired, refresh)
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	for _, ck := range rec.Result().Cookies() {
		names = append(names, ck.Name)
	}
	assert.ElementsMatch(t, []string{jwthelp.AccessCookie, jwthelp.RefreshCookie}, names)

	rec = serve(t, fakeRefresher{err: errors.New("revoked")}, false, expired, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, ok, false, expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClaimsFrom(t *testing.T) {
	t.Parallel()

	mw := NewAutoRefreshMiddleware(secret, fakeRefresher{})
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		id, err := claims.UserID()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]any{"id": id, "admin": claims.IsAdmin()})
	}, mw.RequireAuth)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.AccessCookie, Value: accessToken(t, tokens.RoleAdmin, time.Now().Add(time.Minute))})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":17,"admin":true}`, rec.Body.String())
}
