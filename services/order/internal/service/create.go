package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
	"github.com/Skotchmaster/oss_shop/services/order/internal/transport"
)

// paymentSummary renders the stored payment description; card numbers keep
// only their last four digits.
func paymentSummary(pm *transport.PaymentMethod) (details, provider string) {
	switch strings.ToLower(pm.Type) {
	case "card":
		if n := strings.ReplaceAll(pm.CardNumber, " ", ""); len(n) > 4 {
			details = "**** **** **** " + n[len(n)-4:]
		}
		if pm.CardHolder != "" {
			details += " - " + pm.CardHolder
		}
	case "upi":
		details = pm.UPIID
	case "cod":
		details = "Cash on Delivery"
	case "bnpl":
		provider = pm.BNPLProvider
		details = "Buy Now Pay Later - " + provider
	}
	return details, provider
}

func (s *OrderService) CreateFromFrontend(ctx context.Context, req transport.FrontendOrderRequest) (*models.Order, error) {
	o := &models.Order{
		OrderID:     strings.TrimSpace(req.ID),
		CustomerID:  req.UserID,
		TotalAmount: req.Total,
		Subtotal:    req.Subtotal,
		Shipping:    req.Shipping,
		Tax:         req.Tax,
		Discount:    req.Discount,
	}
	if o.CustomerID == 0 {
		o.CustomerID = req.CustomerID
	}
	if req.Date != "" {
		if t, err := time.Parse(time.RFC3339, req.Date); err == nil {
			o.OrderDate = t.UTC()
		}
	}

	if a := req.ShippingAddress; a != nil {
		o.ShippingFullName = a.FullName
		o.ShippingPhone = a.Phone
		o.ShippingLine1 = a.AddressLine1
		o.ShippingLine2 = a.AddressLine2
		o.ShippingCity = a.City
		o.ShippingState = a.State
		o.ShippingZipCode = a.ZipCode
		o.ShippingCountry = a.Country
	}
	if pm := req.PaymentMethod; pm != nil {
		o.PaymentType = pm.Type
		o.PaymentDetails, o.PaymentProvider = paymentSummary(pm)
	}

	o.Items = make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		line := models.OrderItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Quantity:     it.Quantity,
			Price:        it.Price,
		}
		if it.Total.Valid {
			line.LineTotal = it.Total.Decimal
		}
		o.Items = append(o.Items, line)
	}

	return s.PlaceOrder(ctx, o)
}

func (s *OrderService) CreateFromCheckout(ctx context.Context, req transport.CheckoutOrderRequest) (*transport.CreateOrderResponse, error) {
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}

	o := &models.Order{
		CustomerID:     req.UserID,
		AddressID:      req.AddressID,
		ShippingOption: req.ShippingOption,
		TotalAmount:    req.Amount,
		Items:          make([]models.OrderItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		o.Items = append(o.Items, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			Price:       it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}

	placed, err := s.PlaceOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	return &transport.CreateOrderResponse{
		ID:          placed.ID,
		OrderID:     placed.OrderID,
		Status:      placed.Status,
		TotalAmount: placed.TotalAmount,
		OrderDate:   placed.OrderDate,
	}, nil
}

func (s *OrderService) UpdateFromRequest(ctx context.Context, orderID string, req transport.UpdateOrderRequest) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			Quantity:     it.Quantity,
			Price:        it.Price,
		})
	}
	return s.UpdateOrder(ctx, orderID, items, req.TotalAmount)
}
