package models

import "time"

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"        json:"user_id"`
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one cart line; ProductID plus Variant identifies the line within a cart.
type CartItem struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	CartID    uint   `gorm:"index;not null"            json:"-"`
	ProductID uint   `gorm:"not null"                  json:"product_id"`
	Quantity  int    `gorm:"not null;check:quantity>0" json:"quantity"`
	Variant   string `gorm:"not null;default:''"       json:"variant,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func All() []any {
	return []any{&Cart{}, &CartItem{}}
}
