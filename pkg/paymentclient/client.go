// Package paymentclient calls the payment service.
package paymentclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/pkg/httpclient"
)

type IntentRequest struct {
	OrderID string          `json:"order_id"`
	UserID  uint            `json:"user_id"`
	Amount  decimal.Decimal `json:"amount"`
	Method  string          `json:"method"`
}

type Payment struct {
	PaymentID   string          `json:"payment_id"`
	OrderID     string          `json:"order_id"`
	UserID      uint            `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{http: httpclient.New(baseURL, timeout)}
}

func (c *Client) CreateIntent(ctx context.Context, req IntentRequest) (*Payment, error) {
	var out Payment
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/payments/intents")
	if err := httpclient.Check("create payment intent", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Confirm(ctx context.Context, intentID string) (*Payment, error) {
	var out Payment
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"intent_id": intentID}).
		SetResult(&out).
		Post("/api/payments/confirm")
	if err := httpclient.Check("confirm payment", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
