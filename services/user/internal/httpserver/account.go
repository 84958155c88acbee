package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/user/internal/service"
	"github.com/Skotchmaster/oss_shop/services/user/internal/transport"
)

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.get_profile")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "get_profile_error", err)
	}
	p, err := h.Svc.GetProfile(ctx, userID)
	if err != nil {
		return fail(l, "get_profile_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AccountHTTP) PutProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.put_profile")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "put_profile_error", err)
	}
	var req transport.ProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "put_profile_error", badRequest("invalid body"))
	}

	p, err := h.Svc.UpsertProfile(ctx, userID, req)
	if err != nil {
		return fail(l, "put_profile_error", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AccountHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list_addresses")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "list_addresses_error", err)
	}
	out, err := h.Svc.ListAddresses(ctx, userID)
	if err != nil {
		return fail(l, "list_addresses_error", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHTTP) AddAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.add_address")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "add_address_error", err)
	}
	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "add_address_error", badRequest("invalid body"))
	}

	a, err := h.Svc.AddAddress(ctx, userID, req)
	if err != nil {
		return fail(l, "add_address_error", err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AccountHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.delete_address")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "delete_address_error", err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "delete_address_error", err)
	}
	if err := h.Svc.DeleteAddress(ctx, userID, id); err != nil {
		return fail(l, "delete_address_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) ListPaymentMethods(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list_payments")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "list_payments_error", err)
	}
	out, err := h.Svc.ListPaymentMethods(ctx, userID)
	if err != nil {
		return fail(l, "list_payments_error", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHTTP) AddPaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.add_payment")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "add_payment_error", err)
	}
	var req transport.PaymentMethodRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "add_payment_error", badRequest("invalid body"))
	}

	m, err := h.Svc.AddPaymentMethod(ctx, userID, req)
	if err != nil {
		return fail(l, "add_payment_error", err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *AccountHTTP) DeletePaymentMethod(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.delete_payment")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "delete_payment_error", err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return fail(l, "delete_payment_error", err)
	}
	if err := h.Svc.DeletePaymentMethod(ctx, userID, id); err != nil {
		return fail(l, "delete_payment_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) ListWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list_wishlist")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "list_wishlist_error", err)
	}
	out, err := h.Svc.ListWishlist(ctx, userID)
	if err != nil {
		return fail(l, "list_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AccountHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.add_wishlist")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "add_wishlist_error", err)
	}
	var req transport.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "add_wishlist_error", badRequest("invalid body"))
	}

	item, err := h.Svc.AddToWishlist(ctx, userID, req.ProductID)
	if err != nil {
		return fail(l, "add_wishlist_error", err)
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *AccountHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.remove_wishlist")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "remove_wishlist_error", err)
	}
	productID, err := parseID(c, "productId")
	if err != nil {
		return fail(l, "remove_wishlist_error", err)
	}
	if err := h.Svc.RemoveFromWishlist(ctx, userID, productID); err != nil {
		return fail(l, "remove_wishlist_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) RemoveWishlistItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.remove_wishlist_item")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "remove_wishlist_item_error", err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return fail(l, "remove_wishlist_item_error", err)
	}
	if err := h.Svc.RemoveWishlistItem(ctx, userID, itemID); err != nil {
		return fail(l, "remove_wishlist_item_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHTTP) OrderHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.order_history")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "order_history_error", err)
	}
	orders, err := h.Svc.OrderHistory(ctx, userID)
	if err != nil {
		l.Error("order_history_error", "status", http.StatusBadGateway, "error", err)
		return httperr.New(http.StatusBadGateway, httperr.CodeBadGateway, "order service unavailable")
	}
	return c.JSON(http.StatusOK, orders)
}
