package catalogclient

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

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/products/batch", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs []uint `json:"ids"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []uint{1, 2}, req.IDs)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Product{
			{ID: 1, Name: "Mug", Price: decimal.RequireFromString("10.00")},
		})
	})
	mux.HandleFunc("GET /api/products/{id}/check-stock", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		available := r.PathValue("id") == "1" && r.URL.Query().Get("quantity") == "2"
		_ = json.NewEncoder(w).Encode(map[string]any{"available": available})
	})
	mux.HandleFunc("PUT /api/products/{id}/reduce-stock", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "1" {
			http.Error(w, `{"error":"INSUFFICIENT_STOCK"}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Batch(t *testing.T) {
	t.Parallel()

	c := New(newServer(t).URL, time.Second)
	products, err := c.Batch(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)
	assert.True(t, decimal.RequireFromString("10").Equal(products[0].Price))
}

func TestClient_CheckStock(t *testing.T) {
	t.Parallel()

	c := New(newServer(t).URL, time.Second)

	ok, err := c.CheckStock(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CheckStock(context.Background(), 1, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_ReduceStock(t *testing.T) {
	t.Parallel()

	c := New(newServer(t).URL, time.Second)
	require.NoError(t, c.ReduceStock(context.Background(), 1, 1))

	err := c.ReduceStock(context.Background(), 9, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
