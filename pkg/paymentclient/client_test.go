package paymentclient

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

func TestClient_IntentThenConfirm(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/payments/intents", func(w http.ResponseWriter, r *http.Request) {
		var req IntentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Payment{PaymentID: "pay-1", OrderID: req.OrderID, Amount: req.Amount, Method: req.Method, Status: "PENDING"})
	})
	mux.HandleFunc("POST /api/payments/confirm", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IntentID string `json:"intent_id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.IntentID != "pay-1" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Payment{PaymentID: "pay-1", Status: "SUCCESS"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Second)

	intent, err := c.CreateIntent(context.Background(), IntentRequest{
		OrderID: "ord-1", UserID: 3, Amount: decimal.NewFromInt(20), Method: "CARD",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay-1", intent.PaymentID)
	assert.Equal(t, "PENDING", intent.Status)

	confirmed, err := c.Confirm(context.Background(), intent.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", confirmed.Status)

	_, err = c.Confirm(context.Background(), "unknown")
	require.Error(t, err)
}
