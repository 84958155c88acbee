// Package orderclient calls the order management service.
package orderclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/pkg/httpclient"
)

type Item struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CreateRequest struct {
	UserID         uint            `json:"user_id"`
	AddressID      uint            `json:"address_id"`
	ShippingOption string          `json:"shipping_option"`
	Amount         decimal.Decimal `json:"amount"`
	Items          []Item          `json:"items"`
}

type CreateResponse struct {
	ID          uint            `json:"id"`
	OrderID     string          `json:"order_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
}

type OrderLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type Order struct {
	OrderID           string          `json:"order_id"`
	Status            string          `json:"status"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	OrderDate         time.Time       `json:"order_date"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	Items             []OrderLine     `json:"items"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{http: httpclient.New(baseURL, timeout)}
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (*CreateResponse, error) {
	var out CreateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/api/orders/create")
	if err := httpclient.Check("create order", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	var out []Order
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userId", strconv.FormatUint(uint64(userID), 10)).
		SetResult(&out).
		Get("/api/orders/user/{userId}")
	if err := httpclient.Check(fmt.Sprintf("list orders of user %d", userID), resp, err); err != nil {
		return nil, err
	}
	return out, nil
}
