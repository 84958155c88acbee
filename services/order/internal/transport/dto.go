package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
)

// CheckoutItem is one line of an order created by the cart service's checkout.
type CheckoutItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CheckoutOrderRequest struct {
	UserID         uint            `json:"user_id"`
	AddressID      uint            `json:"address_id"`
	ShippingOption string          `json:"shipping_option"`
	Amount         decimal.Decimal `json:"amount"`
	Items          []CheckoutItem  `json:"items"`
}

type CreateOrderResponse struct {
	ID          uint               `json:"id"`
	OrderID     string             `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	OrderDate   time.Time          `json:"order_date"`
}

type ShippingAddress struct {
	FullName     string `json:"full_name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`
}

type PaymentMethod struct {
	Type         string `json:"type"`
	CardNumber   string `json:"card_number"`
	CardHolder   string `json:"card_holder"`
	UPIID        string `json:"upi_id"`
	BNPLProvider string `json:"bnpl_provider"`
}

type FrontendItem struct {
	ProductID    uint                `json:"product_id"`
	ProductName  string              `json:"product_name"`
	ProductImage string              `json:"product_image"`
	Quantity     int                 `json:"quantity"`
	Price        decimal.Decimal     `json:"price"`
	Total        decimal.NullDecimal `json:"total"`
}

// FrontendOrderRequest is the full order document posted by the storefront.
type FrontendOrderRequest struct {
	ID              string              `json:"id"`
	UserID          uint                `json:"user_id"`
	CustomerID      uint                `json:"customer_id"`
	Total           decimal.Decimal     `json:"total"`
	Subtotal        decimal.NullDecimal `json:"subtotal"`
	Shipping        decimal.NullDecimal `json:"shipping"`
	Tax             decimal.NullDecimal `json:"tax"`
	Discount        decimal.NullDecimal `json:"discount"`
	Date            string              `json:"date"`
	ShippingAddress *ShippingAddress    `json:"shipping_address"`
	PaymentMethod   *PaymentMethod      `json:"payment_method"`
	Items           []FrontendItem      `json:"items"`
}

type UpdateOrderItem struct {
	ProductID    uint            `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}

type UpdateOrderRequest struct {
	Items       []UpdateOrderItem   `json:"items"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
}

type StatusRequest struct {
	Status string `json:"status"`
}
