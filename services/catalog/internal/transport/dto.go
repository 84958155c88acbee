package transport

import (
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	Stock          int             `json:"stock"`
	Specifications map[string]any  `json:"specifications"`
	Categories     []string        `json:"categories"`
}

type PatchProductRequest struct {
	SKU            *string          `json:"sku"`
	Name           *string          `json:"name"`
	Brand          *string          `json:"brand"`
	Description    *string          `json:"description"`
	Price          *decimal.Decimal `json:"price"`
	Currency       *string          `json:"currency"`
	Stock          *int             `json:"stock"`
	Specifications map[string]any   `json:"specifications"`
	Categories     []string         `json:"categories"`
}

type BatchRequest struct {
	IDs []uint `json:"ids"`
}

type CreateReviewRequest struct {
	UserID           uint   `json:"user_id"`
	UserName         string `json:"user_name"`
	UserAvatar       string `json:"user_avatar"`
	Rating           int    `json:"rating"`
	Title            string `json:"title"`
	Comment          string `json:"comment"`
	VerifiedPurchase bool   `json:"verified_purchase"`
}

type StockCheckResponse struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	Available bool `json:"available"`
}
