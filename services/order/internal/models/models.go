package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPlaced    OrderStatus = "PLACED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Locked reports whether the order has left the warehouse and can no longer be changed or cancelled.
func (s OrderStatus) Locked() bool {
	return s == StatusShipped || s == StatusDelivered
}

type Order struct {
	ID                uint                `gorm:"primaryKey;autoIncrement"             json:"id"`
	OrderID           string              `gorm:"size:64;uniqueIndex;not null"         json:"order_id"`
	CustomerID        uint                `gorm:"index"                                json:"customer_id"`
	CustomerEmail     string              `json:"customer_email,omitempty"`
	TotalAmount       decimal.Decimal     `gorm:"type:numeric(12,2);not null"          json:"total_amount"`
	Subtotal          decimal.NullDecimal `gorm:"type:numeric(12,2)"                   json:"subtotal"`
	Shipping          decimal.NullDecimal `gorm:"type:numeric(12,2)"                   json:"shipping"`
	Tax               decimal.NullDecimal `gorm:"type:numeric(12,2)"                   json:"tax"`
	Discount          decimal.NullDecimal `gorm:"type:numeric(12,2)"                   json:"discount"`
	Status            OrderStatus         `gorm:"size:16;index;not null"               json:"status"`
	OrderDate         time.Time           `gorm:"not null"                             json:"order_date"`
	EstimatedDelivery time.Time           `json:"estimated_delivery"`
	AddressID         uint                `json:"address_id,omitempty"`
	ShippingOption    string              `gorm:"size:32"                              json:"shipping_option,omitempty"`
	ShippingFullName  string              `json:"shipping_full_name,omitempty"`
	ShippingPhone     string              `json:"shipping_phone,omitempty"`
	ShippingLine1     string              `json:"shipping_address_line1,omitempty"`
	ShippingLine2     string              `json:"shipping_address_line2,omitempty"`
	ShippingCity      string              `json:"shipping_city,omitempty"`
	ShippingState     string              `json:"shipping_state,omitempty"`
	ShippingZipCode   string              `json:"shipping_zip_code,omitempty"`
	ShippingCountry   string              `json:"shipping_country,omitempty"`
	PaymentType       string              `gorm:"size:16"                              json:"payment_type,omitempty"`
	PaymentDetails    string              `json:"payment_details,omitempty"`
	PaymentProvider   string              `json:"payment_provider,omitempty"`
	Items             []OrderItem         `gorm:"constraint:OnDelete:CASCADE"          json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

type OrderItem struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"        json:"id"`
	OrderID      uint            `gorm:"index;not null"                  json:"-"`
	ProductID    uint            `gorm:"not null"                        json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `gorm:"not null;check:quantity > 0"     json:"quantity"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"     json:"price"`
	LineTotal    decimal.Decimal `gorm:"type:numeric(12,2);not null"     json:"line_total"`
}

func All() []any {
	return []any{&Order{}, &OrderItem{}}
}
