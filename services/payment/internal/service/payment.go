package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/models"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

var decisions = map[models.Method]models.Status{
	models.MethodCard:   models.StatusSuccess,
	models.MethodWallet: models.StatusSuccess,
	models.MethodCOD:    models.StatusSuccess,
	models.MethodUPI:    models.StatusSuccess,
	models.MethodBNPL:   models.StatusPending,
}

// ParseMethod normalizes a method name; unknown methods are a validation error.
func ParseMethod(name string) (models.Method, error) {
	m := models.Method(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := decisions[m]; !ok {
		return "", fmt.Errorf("%w: unsupported payment method %q", ErrValidation, name)
	}
	return m, nil
}

// DecideStatus is the static outcome for a method: BNPL stays pending, the rest succeed.
func DecideStatus(m models.Method) (models.Status, error) {
	s, ok := decisions[m]
	if !ok {
		return "", fmt.Errorf("%w: unsupported payment method %q", ErrValidation, m)
	}
	return s, nil
}

type PaymentService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

type PaymentEvent struct {
	Type      string          `json:"type"`
	PaymentID string          `json:"payment_id"`
	OrderID   string          `json:"order_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    models.Method   `json:"method"`
	Status    models.Status   `json:"status"`
	At        time.Time       `json:"at"`
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *PaymentService) emit(ctx context.Context, p *models.Payment) {
	events.Emit(ctx, s.Events, events.TopicPayments, p.OrderID, PaymentEvent{
		Type:      "payment_processed",
		PaymentID: p.PaymentID,
		OrderID:   p.OrderID,
		Amount:    p.Amount,
		Method:    p.Method,
		Status:    p.Status,
		At:        s.now(),
	})
}

func (s *PaymentService) newPayment(orderID string, userID uint, amount decimal.Decimal, method string) (*models.Payment, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: order_id is required", ErrValidation)
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	m, err := ParseMethod(method)
	if err != nil {
		return nil, err
	}
	return &models.Payment{
		PaymentID: uuid.NewString(),
		OrderID:   orderID,
		UserID:    userID,
		Amount:    amount,
		Method:    m,
	}, nil
}

// ProcessPayment records a payment whose status is decided immediately.
func (s *PaymentService) ProcessPayment(ctx context.Context, orderID string, userID uint, amount decimal.Decimal, method string) (*models.Payment, error) {
	l := logging.FromContext(ctx).With("svc", "payment.process")

	p, err := s.newPayment(orderID, userID, amount, method)
	if err != nil {
		return nil, err
	}
	if p.Status, err = DecideStatus(p.Method); err != nil {
		return nil, err
	}
	at := s.now()
	p.PaymentDate = &at

	if err := s.Repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	l.Info("payment_processed", "payment_id", p.PaymentID, "order_id", p.OrderID, "method", p.Method, "status", p.Status)

	s.emit(ctx, p)
	return p, nil
}

// CreateIntent records a pending payment to be confirmed later.
func (s *PaymentService) CreateIntent(ctx context.Context, orderID string, userID uint, amount decimal.Decimal, method string) (*models.Payment, error) {
	l := logging.FromContext(ctx).With("svc", "payment.create_intent")

	p, err := s.newPayment(orderID, userID, amount, method)
	if err != nil {
		return nil, err
	}
	p.Status = models.StatusPending

	if err := s.Repo.CreatePayment(ctx, p); err != nil {
		return nil, err
	}
	l.Info("payment_intent_created", "payment_id", p.PaymentID, "order_id", p.OrderID, "method", p.Method)
	return p, nil
}

// Confirm applies the decision table to the intent's stored method.
func (s *PaymentService) Confirm(ctx context.Context, intentID string) (*models.Payment, error) {
	l := logging.FromContext(ctx).With("svc", "payment.confirm")

	p, err := s.GetPayment(ctx, intentID)
	if err != nil {
		return nil, err
	}
	status, err := DecideStatus(p.Method)
	if err != nil {
		return nil, err
	}
	at := s.now()

	if err := s.Repo.SetStatus(ctx, p.PaymentID, status, at); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment not found with id %s", ErrNotFound, intentID)
		}
		return nil, err
	}
	p.Status = status
	p.PaymentDate = &at
	l.Info("payment_confirmed", "payment_id", p.PaymentID, "order_id", p.OrderID, "status", p.Status)

	s.emit(ctx, p)
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	p, err := s.Repo.GetPayment(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment not found with id %s", ErrNotFound, paymentID)
		}
		return nil, err
	}
	return p, nil
}

func (s *PaymentService) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	return s.Repo.ListByOrder(ctx, strings.TrimSpace(orderID))
}
