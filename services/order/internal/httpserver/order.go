package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
	"github.com/Skotchmaster/oss_shop/services/order/internal/service"
	"github.com/Skotchmaster/oss_shop/services/order/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

// PlaceOrder accepts the storefront's full order document.
func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	var req transport.FrontendOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "place_order_error", badRequest("invalid body"))
	}
	if caller := callerID(c); caller != 0 {
		owner := req.UserID
		if owner == 0 {
			owner = req.CustomerID
		}
		switch {
		case owner == 0:
			req.UserID = caller
		case owner != caller:
			return fail(l, "place_order_error", forbidden())
		}
	}

	order, err := h.Svc.CreateFromFrontend(ctx, req)
	if err != nil {
		return fail(l, "place_order_error", err)
	}

	l.Info("place_order_success", "order_id", order.OrderID)
	return c.JSON(http.StatusCreated, order)
}

// CreateOrder is called by checkout.
func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CheckoutOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "create_order_error", badRequest("invalid body"))
	}
	if caller := callerID(c); caller != 0 && req.UserID != caller {
		return fail(l, "create_order_error", forbidden())
	}

	res, err := h.Svc.CreateFromCheckout(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", res.OrderID)
	return c.JSON(http.StatusCreated, res)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := orderID(c)
	if err != nil {
		return fail(l, "get_order_error", err)
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) TrackOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.track")

	id, err := orderID(c)
	if err != nil {
		return fail(l, "track_order_error", err)
	}

	order, err := h.Svc.TrackOrder(ctx, id)
	if err != nil {
		return fail(l, "track_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_by_user")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "list_orders_error", err)
	}

	orders, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := orderID(c)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	var req transport.UpdateOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "update_order_error", badRequest("invalid body"))
	}

	order, err := h.Svc.UpdateFromRequest(ctx, id, req)
	if err != nil {
		return fail(l, "update_order_error", err)
	}

	l.Info("update_order_success", "order_id", id)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	id, err := orderID(c)
	if err != nil {
		return fail(l, "cancel_order_error", err)
	}

	if err := h.Svc.CancelOrder(ctx, id); err != nil {
		return fail(l, "cancel_order_error", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, map[string]string{"message": "Order cancelled successfully"})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := orderID(c)
	if err != nil {
		return fail(l, "update_status_error", err)
	}

	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "update_status_error", badRequest("invalid body"))
	}
	status := models.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if status == "" {
		return fail(l, "update_status_error", badRequest("status is required"))
	}

	order, err := h.Svc.AdvanceStatus(ctx, id, status)
	if err != nil {
		return fail(l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", id, "status", status)
	return c.JSON(http.StatusOK, order)
}
