package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        *string   `gorm:"uniqueIndex"              json:"email,omitempty"`
	Phone        *string   `gorm:"uniqueIndex"              json:"phone,omitempty"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	MFAEnabled   bool      `gorm:"not null;default:false"   json:"mfa_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint   `gorm:"uniqueIndex;not null"     json:"user_id"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type Address struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint   `gorm:"index;not null"           json:"user_id"`
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Line1      string `gorm:"not null"                 json:"line1"`
	Line2      string `json:"line2"`
	City       string `gorm:"not null"                 json:"city"`
	State      string `gorm:"not null"                 json:"state"`
	PostalCode string `gorm:"not null"                 json:"postal_code"`
	Country    string `gorm:"not null"                 json:"country"`
	IsDefault  bool   `json:"is_default"`
}

type PaymentMethod struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint   `gorm:"index;not null"           json:"user_id"`
	Provider    string `gorm:"not null"                 json:"provider"`
	Token       string `gorm:"not null"                 json:"-"`
	DisplayName string `json:"display_name"`
	PaymentType string `json:"payment_type"`
	IsDefault   bool   `json:"is_default"`
}

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                       json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EmailOTP struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Email     string    `gorm:"not null"                 json:"email"`
	Code      string    `gorm:"size:6;not null"          json:"-"`
	ExpiresAt time.Time `gorm:"index;not null"           json:"expires_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"            json:"id"`
	Token     string `gorm:"unique;not null"       json:"-"`
	UserID    uint   `gorm:"index;not null"        json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null"  json:"jti"`
	ExpiresAt int64  `gorm:"not null"              json:"expires_at"`
	Revoked   bool   `gorm:"default:false"         json:"revoked"`
}

func All() []any {
	return []any{
		&User{},
		&Profile{},
		&Address{},
		&PaymentMethod{},
		&WishlistItem{},
		&EmailOTP{},
		&RefreshToken{},
	}
}
