package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/oss_shop/pkg/catalogclient"
	"github.com/Skotchmaster/oss_shop/pkg/db/dbtest"
	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/orderclient"
	"github.com/Skotchmaster/oss_shop/pkg/paymentclient"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/models"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/service"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/transport"
)

var secret = []byte("cart-test-secret")

type stubCatalog struct{}

func (stubCatalog) Batch(_ context.Context, ids []uint) ([]catalogclient.Product, error) {
	out := make([]catalogclient.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, catalogclient.Product{ID: id, Name: "P" + strconv.Itoa(int(id)), Price: decimal.RequireFromString("10.00")})
	}
	return out, nil
}

type stubDownstream struct {
	failOrder bool
}

func (s stubDownstream) Create(_ context.Context, req orderclient.CreateRequest) (*orderclient.CreateResponse, error) {
	if s.failOrder {
		return nil, &echo.HTTPError{Code: http.StatusServiceUnavailable}
	}
	return &orderclient.CreateResponse{ID: 1, OrderID: "ord-1", Status: "PLACED", TotalAmount: req.Amount}, nil
}

func (stubDownstream) CreateIntent(_ context.Context, req paymentclient.IntentRequest) (*paymentclient.Payment, error) {
	return &paymentclient.Payment{PaymentID: "pay-1", OrderID: req.OrderID, Status: "PENDING"}, nil
}

func (stubDownstream) Confirm(_ context.Context, intentID string) (*paymentclient.Payment, error) {
	return &paymentclient.Payment{PaymentID: intentID, Status: "SUCCESS"}, nil
}

func newTestServer(t *testing.T, down stubDownstream) *echo.Echo {
	t.Helper()

	carts := &service.CartService{
		Repo:    &repo.GormRepo{DB: dbtest.New(t, models.All()...)},
		Catalog: stubCatalog{},
	}
	e := echo.New()
	e.HTTPErrorHandler = httperr.Handler
	Register(e, &Deps{
		CartHandler: &CartHTTP{
			Svc:      carts,
			Checkout: &service.CheckoutService{Carts: carts, Orders: down, Payments: down},
		},
		JWTSecret: secret,
	})
	return e
}

func token(t *testing.T, role, subject string) *http.Cookie {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

func do(e *echo.Echo, method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCartRoutes(t *testing.T) {
	e := newTestServer(t, stubDownstream{})
	ck := token(t, tokens.RoleUser, "5")

	rec := do(e, http.MethodGet, "/cart/5", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodGet, "/cart/6", nil, ck)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/cart/5/items", map[string]any{"product_id": 1, "quantity": 1}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPost, "/cart/5/items?productId=1&quantity=1", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decode[models.Cart](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	rec = do(e, http.MethodPost, "/cart/5/items", map[string]any{"product_id": 1, "quantity": 0}, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/cart/5/price", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	price := decode[transport.PriceResponse](t, rec)
	assert.Equal(t, "20.00", price.GrandTotal.StringFixed(2))

	itemPath := "/cart/5/items/" + strconv.FormatUint(uint64(cart.Items[0].ID), 10)
	rec = do(e, http.MethodPut, itemPath, map[string]any{"quantity": 3}, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 3, decode[models.Cart](t, rec).Items[0].Quantity)

	rec = do(e, http.MethodDelete, itemPath, nil, ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.Cart](t, rec).Items)

	rec = do(e, http.MethodDelete, itemPath, nil, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(e, http.MethodGet, "/cart/6", nil, token(t, tokens.RoleAdmin, "1"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutRoute(t *testing.T) {
	e := newTestServer(t, stubDownstream{})
	ck := token(t, tokens.RoleUser, "5")

	rec := do(e, http.MethodPost, "/cart/5/items", map[string]any{"product_id": 1, "quantity": 2}, ck)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/checkout?userId=6&addressId=1&method=CARD", nil, ck)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodPost, "/checkout?addressId=1&method=CARD", nil, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, service.CheckoutMessage, body["message"])
	assert.Equal(t, "ord-1", body["order"].(map[string]any)["order_id"])
	assert.Equal(t, "SUCCESS", body["payment"].(map[string]any)["status"])

	rec = do(e, http.MethodGet, "/cart/5", nil, ck)
	assert.Empty(t, decode[models.Cart](t, rec).Items)
}

func TestCheckoutRoute_DownstreamFailure(t *testing.T) {
	e := newTestServer(t, stubDownstream{failOrder: true})
	ck := token(t, tokens.RoleUser, "5")

	rec := do(e, http.MethodPost, "/checkout", map[string]any{"address_id": 1, "method": "CARD"}, ck)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, httperr.CodeBadGateway, decode[httperr.Body](t, rec).Error)
}
