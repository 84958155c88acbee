package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/service"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/transport"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) MakePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.process")

	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "process_payment_error", badRequest("invalid body"))
	}

	p, err := h.Svc.ProcessPayment(ctx, req.OrderID, req.UserID, req.Amount, req.MethodName())
	if err != nil {
		return fail(l, "process_payment_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	var req transport.PaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_intent_error", badRequest("invalid body"))
	}

	p, err := h.Svc.CreateIntent(ctx, req.OrderID, req.UserID, req.Amount, req.MethodName())
	if err != nil {
		return fail(l, "create_intent_error", err)
	}
	return c.JSON(http.StatusOK, transport.IntentResponse{ID: p.PaymentID, Payment: p})
}

func (h *PaymentHTTP) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.confirm")

	var req transport.ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "confirm_payment_error", badRequest("invalid body"))
	}
	if strings.TrimSpace(req.IntentID) == "" {
		return fail(l, "confirm_payment_error", badRequest("intent_id is required"))
	}

	p, err := h.Svc.Confirm(ctx, req.IntentID)
	if err != nil {
		return fail(l, "confirm_payment_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHTTP) GetPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.get")

	p, err := h.Svc.GetPayment(ctx, c.Param("paymentId"))
	if err != nil {
		return fail(l, "get_payment_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHTTP) ListByOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.list_by_order")

	payments, err := h.Svc.ListByOrder(ctx, c.Param("orderId"))
	if err != nil {
		return fail(l, "list_payments_error", err)
	}
	return c.JSON(http.StatusOK, payments)
}
