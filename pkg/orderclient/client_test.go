package orderclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Create(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/create", r.URL.Path)

		var req CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uint(5), req.UserID)
		assert.Equal(t, "STANDARD", req.ShippingOption)
		require.Len(t, req.Items, 1)
		assert.True(t, decimal.RequireFromString("20").Equal(req.Amount))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(CreateResponse{ID: 1, OrderID: "ord-1", Status: "PLACED", TotalAmount: req.Amount})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	res, err := c.Create(context.Background(), CreateRequest{
		UserID:         5,
		ShippingOption: "STANDARD",
		Amount:         decimal.RequireFromString("20.00"),
		Items: []Item{{
			ProductID: 1, Name: "Mug", Quantity: 2,
			UnitPrice: decimal.RequireFromString("10.00"),
			LineTotal: decimal.RequireFromString("20.00"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", res.OrderID)
	assert.Equal(t, "PLACED", res.Status)
}

func TestClient_ListByUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/orders/user/5" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Order{{OrderID: "ord-1", Status: "SHIPPED"}})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)
	orders, err := c.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "SHIPPED", orders[0].Status)

	_, err = c.ListByUser(context.Background(), 6)
	require.Error(t, err)
}
