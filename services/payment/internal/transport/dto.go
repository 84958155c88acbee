package transport

import (
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/services/payment/internal/models"
)

// PaymentRequest also accepts payment_method for clients that send the
// storefront's field name.
type PaymentRequest struct {
	OrderID       string          `json:"order_id"`
	UserID        uint            `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	PaymentMethod string          `json:"payment_method"`
}

func (r PaymentRequest) MethodName() string {
	if r.Method != "" {
		return r.Method
	}
	return r.PaymentMethod
}

type ConfirmRequest struct {
	IntentID string `json:"intent_id"`
}

type IntentResponse struct {
	ID string `json:"id"`
	*models.Payment
}
