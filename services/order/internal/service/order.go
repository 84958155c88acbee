package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/httpclient"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/notify"
	"github.com/Skotchmaster/oss_shop/pkg/userclient"
	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
	"github.com/Skotchmaster/oss_shop/services/order/internal/repo"
)

var (
	ErrValidation             = errors.New("validation")
	ErrNotFound               = errors.New("not found")
	ErrModificationNotAllowed = errors.New("order modification not allowed")
	ErrCancellationNotAllowed = errors.New("order cancellation not allowed")
	ErrInvalidTransition      = errors.New("invalid status transition")
)

const DeliveryWindow = 5 * 24 * time.Hour

type UserDirectory interface {
	GetUserDetails(ctx context.Context, userID uint) (*userclient.UserDetails, error)
}

type Inventory interface {
	CheckStock(ctx context.Context, productID uint, quantity int) (bool, error)
	ReduceStock(ctx context.Context, productID uint, quantity int) error
}

type SMSSender interface {
	Send(ctx context.Context, phone, text string)
}

type OrderService struct {
	Repo      *repo.GormRepo
	Users     UserDirectory
	Inventory Inventory
	Mailer    notify.Mailer
	SMS       SMSSender
	Events    events.Publisher
	Now       func() time.Time
}

type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     string             `json:"order_id"`
	CustomerID  uint               `json:"customer_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	At          time.Time          `json:"at"`
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *OrderService) emit(ctx context.Context, typ string, o *models.Order) {
	events.Emit(ctx, s.Events, events.TopicOrders, o.OrderID, OrderEvent{
		Type:        typ,
		OrderID:     o.OrderID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		At:          s.now(),
	})
}

func (s *OrderService) customerEmail(ctx context.Context, customerID uint) string {
	if s.Users == nil || customerID == 0 {
		return ""
	}
	details, err := s.Users.GetUserDetails(ctx, customerID)
	if err != nil {
		l := logging.FromContext(ctx).With("customer_id", customerID)
		if httpclient.IsNotFound(err) {
			l.Info("customer_unknown")
			return ""
		}
		l.Warn("customer_email_lookup_failed", "status", httpclient.StatusOf(err), "error", err)
		return ""
	}
	return details.Email
}

// reserveStock checks and reduces stock line by line; failures are logged and
// the remaining lines are still processed.
func (s *OrderService) reserveStock(ctx context.Context, o *models.Order) {
	if s.Inventory == nil {
		return
	}
	l := logging.FromContext(ctx).With("order_id", o.OrderID)

	for _, it := range o.Items {
		ok, err := s.Inventory.CheckStock(ctx, it.ProductID, it.Quantity)
		if err != nil {
			l.Warn("stock_check_failed", "product_id", it.ProductID, "error", err)
			continue
		}
		if !ok {
			l.Warn("insufficient_stock", "product_id", it.ProductID, "quantity", it.Quantity)
			continue
		}
		if err := s.Inventory.ReduceStock(ctx, it.ProductID, it.Quantity); err != nil {
			l.Warn("stock_reduce_failed", "product_id", it.ProductID, "quantity", it.Quantity, "error", err)
			continue
		}
		l.Info("stock_reduced", "product_id", it.ProductID, "quantity", it.Quantity)
	}
}

func (s *OrderService) mail(ctx context.Context, msg notify.Message) {
	if s.Mailer == nil || msg.To == "" {
		return
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		logging.FromContext(ctx).Warn("order_email_failed", "to", msg.To, "tag", msg.Tag, "error", err)
	}
}

func fillLineTotals(items []models.OrderItem) error {
	for i := range items {
		if items[i].ProductID == 0 {
			return fmt.Errorf("%w: item %d: product_id is required", ErrValidation, i)
		}
		if items[i].Quantity <= 0 {
			return fmt.Errorf("%w: item %d: quantity must be more than zero", ErrValidation, i)
		}
		if items[i].Price.IsNegative() {
			return fmt.Errorf("%w: item %d: price must not be negative", ErrValidation, i)
		}
		if items[i].LineTotal.IsZero() {
			items[i].LineTotal = items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		}
	}
	return nil
}

// PlaceOrder completes and persists a new order. Customer e-mail lookup, stock
// reduction and notifications are best effort and never fail the order.
func (s *OrderService) PlaceOrder(ctx context.Context, o *models.Order) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	if err := fillLineTotals(o.Items); err != nil {
		return nil, err
	}

	now := s.now()
	if o.OrderID == "" {
		o.OrderID = uuid.NewString()
	}
	o.Status = models.StatusPlaced
	if o.OrderDate.IsZero() {
		o.OrderDate = now
	}
	o.EstimatedDelivery = now.Add(DeliveryWindow)

	if o.CustomerEmail == "" {
		o.CustomerEmail = s.customerEmail(ctx, o.CustomerID)
	}

	s.reserveStock(ctx, o)

	if err := s.Repo.CreateOrder(ctx, o); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: order %s already exists", ErrValidation, o.OrderID)
		}
		return nil, err
	}
	l.Info("order_placed", "order_id", o.OrderID, "customer_id", o.CustomerID, "total", o.TotalAmount.StringFixed(2))

	if o.CustomerEmail != "" {
		msg, err := orderPlacedEmail(o)
		if err != nil {
			l.Warn("order_email_render_failed", "order_id", o.OrderID, "error", err)
		} else {
			s.mail(ctx, msg)
		}
	}
	if s.SMS != nil {
		s.SMS.Send(ctx, o.ShippingPhone, fmt.Sprintf("Your order %s has been placed.", o.OrderID))
	}
	s.emit(ctx, "order_placed", o)

	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order not found with id %s", ErrNotFound, orderID)
		}
		return nil, err
	}
	return o, nil
}

func (s *OrderService) TrackOrder(ctx context.Context, orderID string) (*models.Order, error) {
	return s.GetOrder(ctx, orderID)
}

func (s *OrderService) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListByCustomer(ctx, userID, 0, 0)
}

// UpdateOrder replaces the lines and total of an order that has not shipped yet.
// A missing total is recomputed from the lines.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, items []models.OrderItem, total decimal.NullDecimal) (*models.Order, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status.Locked() {
		return nil, fmt.Errorf("%w: order cannot be modified after shipping", ErrModificationNotAllowed)
	}
	if err := fillLineTotals(items); err != nil {
		return nil, err
	}

	if total.Valid {
		o.TotalAmount = total.Decimal
	} else {
		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.LineTotal)
		}
		o.TotalAmount = sum
	}

	if err := s.Repo.ReplaceItems(ctx, o, items); err != nil {
		return nil, err
	}
	s.emit(ctx, "order_updated", o)
	return o, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, orderID string) error {
	l := logging.FromContext(ctx).With("svc", "order.cancel")

	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status.Locked() {
		return fmt.Errorf("%w: order cannot be cancelled once shipped or delivered", ErrCancellationNotAllowed)
	}
	if o.Status == models.StatusCancelled {
		return nil
	}

	if err := s.Repo.SetStatus(ctx, o.ID, o.Status, models.StatusCancelled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order status changed concurrently", ErrInvalidTransition)
		}
		return err
	}
	o.Status = models.StatusCancelled
	l.Info("order_cancelled", "order_id", o.OrderID)

	s.mail(ctx, orderCancelledEmail(o))
	s.emit(ctx, "order_cancelled", o)
	return nil
}

var forward = map[models.OrderStatus]models.OrderStatus{
	models.StatusPlaced:  models.StatusShipped,
	models.StatusShipped: models.StatusDelivered,
}

// AdvanceStatus moves an order one step along PLACED -> SHIPPED -> DELIVERED.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string, to models.OrderStatus) (*models.Order, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if next, ok := forward[o.Status]; !ok || next != to {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}

	if err := s.Repo.SetStatus(ctx, o.ID, o.Status, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order status changed concurrently", ErrInvalidTransition)
		}
		return nil, err
	}
	o.Status = to

	s.emit(ctx, "order_status_changed", o)
	return o, nil
}
