package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/oss_shop/gateway/internal/middleware"
	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
)

var secret = []byte("gateway-test-secret")

func fakeUpstream(t *testing.T, name string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Upstream", name)
		_, _ = w.Write([]byte(r.Method + " " + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestGateway(t *testing.T) *echo.Echo {
	t.Helper()

	down := httptest.NewServer(http.NotFoundHandler())
	downURL := down.URL
	down.Close()

	csrf := middleware.DefaultCSRFConfig()
	csrf.SkipPaths = []string{"/api/v1/auth/login"}

	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler
	require.NoError(t, Register(e, &Deps{
		UserURL:    fakeUpstream(t, "user").URL,
		CatalogURL: fakeUpstream(t, "catalog").URL,
		CartURL:    fakeUpstream(t, "cart").URL,
		OrderURL:   fakeUpstream(t, "order").URL,
		PaymentURL: downURL,
		CSRFConfig: csrf,
		JWTSecret:  secret,
	}))
	return e
}

func accessCookie(t *testing.T, role string) *http.Cookie {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "5",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) { r.AddCookie(c) }
}

// withCSRF adds a matching token cookie and header plus a same-origin Origin.
func withCSRF(r *http.Request) {
	r.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok-123"})
	r.Header.Set("X-CSRF-Token", "tok-123")
	r.Header.Set("Origin", "http://"+r.Host)
}

func send(e *echo.Echo, method, target string, opts ...reqOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	e := newTestGateway(t)

	rec := send(e, http.MethodGet, "/api/v1/products/7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "catalog", rec.Header().Get("X-Upstream"))
	assert.Equal(t, "GET /api/products/7", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))

	rec = send(e, http.MethodGet, "/api/v1/products?category=mugs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET /api/products", rec.Body.String())

	rec = send(e, http.MethodPost, "/api/v1/auth/login")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", rec.Header().Get("X-Upstream"))
	assert.Equal(t, "POST /auth/login", rec.Body.String())
}

func TestPrivateRoutes_RequireToken(t *testing.T) {
	e := newTestGateway(t)
	user := accessCookie(t, tokens.RoleUser)

	rec := send(e, http.MethodGet, "/api/v1/orders/ord-1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = send(e, http.MethodGet, "/api/v1/orders/ord-1", withCookie(user))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET /api/orders/ord-1", rec.Body.String())

	rec = send(e, http.MethodGet, "/api/v1/cart/5", withCookie(user))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET /cart/5", rec.Body.String())

	rec = send(e, http.MethodGet, "/api/v1/users/5/profile", withCookie(user))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "GET /users/5/profile", rec.Body.String())

	rec = send(e, http.MethodPost, "/api/v1/products", withCSRF)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStateChangingRoutes_RequireCSRF(t *testing.T) {
	e := newTestGateway(t)
	user := accessCookie(t, tokens.RoleUser)

	rec := send(e, http.MethodPost, "/api/v1/checkout", withCookie(user))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(e, http.MethodPost, "/api/v1/checkout", withCookie(user), withCSRF)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "POST /checkout", rec.Body.String())

	rec = send(e, http.MethodDelete, "/api/v1/orders/ord-1", withCookie(user), withCSRF)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DELETE /api/orders/ord-1", rec.Body.String())
}

func TestOrderStatus_AdminOnly(t *testing.T) {
	e := newTestGateway(t)

	rec := send(e, http.MethodPatch, "/api/v1/orders/ord-1/status", withCookie(accessCookie(t, tokens.RoleUser)), withCSRF)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(e, http.MethodPatch, "/api/v1/orders/ord-1/status", withCookie(accessCookie(t, tokens.RoleAdmin)), withCSRF)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PATCH /api/orders/ord-1/status", rec.Body.String())
}

func TestProductWrites(t *testing.T) {
	e := newTestGateway(t)
	user := withCookie(accessCookie(t, tokens.RoleUser))
	admin := withCookie(accessCookie(t, tokens.RoleAdmin))

	rec := send(e, http.MethodPut, "/api/v1/products/1/reduce-stock", user, withCSRF)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = send(e, http.MethodPost, "/api/v1/products", user, withCSRF)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = send(e, http.MethodPatch, "/api/v1/products/1", user, withCSRF)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = send(e, http.MethodDelete, "/api/v1/products/1", user, withCSRF)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = send(e, http.MethodPost, "/api/v1/products/1/image", user, withCSRF)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = send(e, http.MethodPost, "/api/v1/products/1/reviews", user, withCSRF)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "POST /api/products/1/reviews", rec.Body.String())
	rec = send(e, http.MethodPost, "/api/v1/products/batch", user, withCSRF)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "POST /api/products/batch", rec.Body.String())

	rec = send(e, http.MethodPut, "/api/v1/products/1/reduce-stock", admin, withCSRF)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PUT /api/products/1/reduce-stock", rec.Body.String())
	rec = send(e, http.MethodPost, "/api/v1/products", admin, withCSRF)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "POST /api/products", rec.Body.String())
}

func TestCustomerWrite(t *testing.T) {
	for rest, want := range map[string]bool{
		"batch":          true,
		"7/reviews":      true,
		"7/reviews/2":    false,
		"/reviews":       false,
		"7/reduce-stock": false,
		"7":              false,
		"":               false,
	} {
		assert.Equal(t, want, customerWrite(rest), rest)
	}
}

func TestUpstreamDown(t *testing.T) {
	e := newTestGateway(t)

	rec := send(e, http.MethodGet, "/api/v1/payments/pay-1", withCookie(accessCookie(t, tokens.RoleUser)))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	var body httperr.Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httperr.CodeBadGateway, body.Error)
	assert.Equal(t, "payment service unavailable", body.Message)
}

func TestRegister_InvalidUpstream(t *testing.T) {
	t.Parallel()

	err := Register(echo.New(), &Deps{UserURL: "not a url"})
	assert.ErrorContains(t, err, "user upstream")
}

func TestRewritePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/api/orders/1", rewritePath("/api/v1/orders/1", "/api/v1", "/api"))
	assert.Equal(t, "/cart/1", rewritePath("/api/v1/cart/1", "/api/v1", ""))
	assert.Equal(t, "/other", rewritePath("/other", "/api/v1", ""))
}
