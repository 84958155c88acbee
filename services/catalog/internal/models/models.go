package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AvailabilityStatus string

const (
	InStock    AvailabilityStatus = "IN_STOCK"
	LowStock   AvailabilityStatus = "LOW_STOCK"
	OutOfStock AvailabilityStatus = "OUT_OF_STOCK"
)

const LowStockThreshold = 5

// AvailabilityFor derives the availability status from the remaining stock.
func AvailabilityFor(stock int) AvailabilityStatus {
	switch {
	case stock <= 0:
		return OutOfStock
	case stock <= LowStockThreshold:
		return LowStock
	default:
		return InStock
	}
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

type Product struct {
	ID                 uint               `gorm:"primaryKey;autoIncrement"                 json:"id"`
	SKU                string             `gorm:"uniqueIndex;not null"                     json:"sku"`
	Name               string             `gorm:"not null"                                 json:"name"`
	Brand              string             `gorm:"index"                                    json:"brand"`
	Description        string             `json:"description"`
	Price              decimal.Decimal    `gorm:"type:numeric(12,2);not null"              json:"price"`
	Currency           string             `gorm:"size:3;not null;default:USD"              json:"currency"`
	Stock              int                `gorm:"not null;default:0;check:stock >= 0"      json:"stock"`
	AvailabilityStatus AvailabilityStatus `gorm:"size:16;not null"                         json:"availability_status"`
	Specifications     datatypes.JSONMap  `json:"specifications"`
	Categories         []Category         `gorm:"many2many:product_categories"             json:"categories"`
	Images             []ProductImage     `gorm:"constraint:OnDelete:CASCADE"              json:"images"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type ProductImage struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint   `gorm:"index;not null"           json:"product_id"`
	ImageURL    string `json:"image_url"`
	ContentType string `gorm:"size:64"                  json:"content_type"`
	Data        []byte `json:"-"`
	AltText     string `json:"alt_text"`
	SortOrder   int    `gorm:"default:0"                json:"sort_order"`
}

type Review struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"              json:"id"`
	ProductID        uint      `gorm:"index;not null"                        json:"product_id"`
	UserID           uint      `gorm:"index"                                 json:"user_id"`
	UserName         string    `json:"user_name"`
	UserAvatar       string    `json:"user_avatar"`
	Rating           int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Title            string    `json:"title"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `gorm:"default:false"                         json:"verified_purchase"`
	HelpfulCount     int       `gorm:"default:0"                             json:"helpful_count"`
	CreatedAt        time.Time `json:"created_at"`
}

func All() []any {
	return []any{&Category{}, &Product{}, &ProductImage{}, &Review{}}
}
