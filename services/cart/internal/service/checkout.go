package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/oss_shop/pkg/catalogclient"
	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/orderclient"
	"github.com/Skotchmaster/oss_shop/pkg/paymentclient"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/models"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/transport"
)

const (
	DefaultShipping = "STANDARD"
	CheckoutMessage = "Order placed successfully!"
)

type OrderCreator interface {
	Create(ctx context.Context, req orderclient.CreateRequest) (*orderclient.CreateResponse, error)
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req paymentclient.IntentRequest) (*paymentclient.Payment, error)
	Confirm(ctx context.Context, intentID string) (*paymentclient.Payment, error)
}

type CheckoutService struct {
	Carts    *CartService
	Orders   OrderCreator
	Payments PaymentGateway
	Events   events.Publisher
}

type CheckoutEvent struct {
	Type      string          `json:"type"`
	UserID    uint            `json:"user_id"`
	OrderID   string          `json:"order_id"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func orderLines(cart *models.Cart, products map[uint]catalogclient.Product) []orderclient.Item {
	items := make([]orderclient.Item, 0, len(cart.Items))
	for _, ci := range cart.Items {
		name := fmt.Sprintf("Product-%d", ci.ProductID)
		price := decimal.Zero
		if p, ok := products[ci.ProductID]; ok {
			name = p.Name
			price = p.Price
		}
		items = append(items, orderclient.Item{
			ProductID: ci.ProductID,
			Name:      name,
			Quantity:  ci.Quantity,
			UnitPrice: price,
			LineTotal: price.Mul(decimal.NewFromInt(int64(ci.Quantity))),
		})
	}
	return items
}

// Checkout prices the cart, creates the order, creates and confirms a payment
// intent, then clears the cart. Steps run in order and are not compensated: a
// failure after the order is created leaves that order in place.
func (s *CheckoutService) Checkout(ctx context.Context, userID, addressID uint, shipping, method string) (*transport.CheckoutResponse, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)

	if userID == 0 || addressID == 0 {
		return nil, fmt.Errorf("%w: user_id and address_id are required", ErrValidation)
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrValidation)
	}
	shipping = strings.TrimSpace(shipping)
	if shipping == "" {
		shipping = DefaultShipping
	}

	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	price, err := s.Carts.Price(ctx, cart)
	if err != nil {
		return nil, err
	}

	products, err := s.Carts.products(ctx, cart)
	if err != nil {
		return nil, err
	}

	order, err := s.Orders.Create(ctx, orderclient.CreateRequest{
		UserID:         userID,
		AddressID:      addressID,
		ShippingOption: shipping,
		Amount:         price.GrandTotal,
		Items:          orderLines(cart, products),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %w", ErrUpstream, err)
	}
	l = l.With("order_id", order.OrderID)

	intent, err := s.Payments.CreateIntent(ctx, paymentclient.IntentRequest{
		OrderID: order.OrderID,
		UserID:  userID,
		Amount:  price.GrandTotal,
		Method:  method,
	})
	if err != nil {
		l.Error("checkout_orphaned_order", "step", "create_intent", "error", err)
		return nil, fmt.Errorf("%w: create payment intent: %w", ErrUpstream, err)
	}

	payment, err := s.Payments.Confirm(ctx, intent.PaymentID)
	if err != nil {
		l.Error("checkout_orphaned_order", "step", "confirm_payment", "payment_id", intent.PaymentID, "error", err)
		return nil, fmt.Errorf("%w: confirm payment: %w", ErrUpstream, err)
	}

	if _, err := s.Carts.Repo.Clear(ctx, userID); err != nil {
		return nil, err
	}

	l.Info("checkout_completed", "payment_id", payment.PaymentID, "amount", price.GrandTotal.String())
	events.Emit(ctx, s.Events, events.TopicCarts, order.OrderID, CheckoutEvent{
		Type:      "checkout_completed",
		UserID:    userID,
		OrderID:   order.OrderID,
		PaymentID: payment.PaymentID,
		Amount:    price.GrandTotal,
	})

	return &transport.CheckoutResponse{
		Order:   order,
		Payment: payment,
		Price:   price,
		Message: CheckoutMessage,
	}, nil
}
