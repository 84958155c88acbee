// Package catalogclient calls the product catalog service.
package catalogclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/pkg/httpclient"
)

type Product struct {
	ID                 uint            `json:"id"`
	SKU                string          `json:"sku"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Price              decimal.Decimal `json:"price"`
	Currency           string          `json:"currency"`
	Stock              int             `json:"stock"`
	AvailabilityStatus string          `json:"availability_status"`
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{http: httpclient.New(baseURL, timeout)}
}

func (c *Client) Batch(ctx context.Context, ids []uint) ([]Product, error) {
	var out []Product
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string][]uint{"ids": ids}).
		SetResult(&out).
		Post("/api/products/batch")
	if err := httpclient.Check("batch products", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CheckStock(ctx context.Context, productID uint, quantity int) (bool, error) {
	var out struct {
		Available bool `json:"available"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(productID), 10)).
		SetQueryParam("quantity", strconv.Itoa(quantity)).
		SetResult(&out).
		Get("/api/products/{id}/check-stock")
	if err := httpclient.Check(fmt.Sprintf("check stock of product %d", productID), resp, err); err != nil {
		return false, err
	}
	return out.Available, nil
}

func (c *Client) ReduceStock(ctx context.Context, productID uint, quantity int) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatUint(uint64(productID), 10)).
		SetQueryParam("quantity", strconv.Itoa(quantity)).
		Put("/api/products/{id}/reduce-stock")
	return httpclient.Check(fmt.Sprintf("reduce stock of product %d", productID), resp, err)
}
