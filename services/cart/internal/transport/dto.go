package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/pkg/orderclient"
	"github.com/Skotchmaster/oss_shop/pkg/paymentclient"
)

type AddItemRequest struct {
	ProductID uint   `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Variant   string `json:"variant"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type PriceResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

type CheckoutRequest struct {
	UserID    uint   `json:"user_id"`
	AddressID uint   `json:"address_id"`
	Shipping  string `json:"shipping"`
	Method    string `json:"method"`
}

type CheckoutResponse struct {
	Order   *orderclient.CreateResponse `json:"order"`
	Payment *paymentclient.Payment      `json:"payment"`
	Price   PriceResponse               `json:"price"`
	Message string                      `json:"message"`
}
