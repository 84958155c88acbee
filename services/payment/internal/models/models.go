package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCard   Method = "CARD"
	MethodUPI    Method = "UPI"
	MethodWallet Method = "WALLET"
	MethodCOD    Method = "COD"
	MethodBNPL   Method = "BNPL"
)

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusPending Status = "PENDING"
)

type Payment struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"          json:"-"`
	PaymentID   string          `gorm:"size:64;uniqueIndex;not null"      json:"payment_id"`
	OrderID     string          `gorm:"size:64;index;not null"            json:"order_id"`
	UserID      uint            `gorm:"index"                             json:"user_id,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null"       json:"amount"`
	Method      Method          `gorm:"size:16;not null"                  json:"method"`
	Status      Status          `gorm:"size:16;not null"                  json:"status"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func All() []any {
	return []any{&Payment{}}
}
