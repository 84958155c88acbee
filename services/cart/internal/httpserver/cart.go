package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/service"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/transport"
)

type CartHTTP struct {
	Svc      *service.CartService
	Checkout *service.CheckoutService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem reads the item from the JSON body; productId, quantity and variant
// query parameters override it.
func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "add_item_error", badRequest("invalid body"))
	}
	if err := echo.QueryParamsBinder(c).
		Uint("productId", &req.ProductID).
		Int("quantity", &req.Quantity).
		String("variant", &req.Variant).
		BindError(); err != nil {
		return fail(l, "add_item_error", badRequest("invalid query parameters"))
	}

	cart, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		return fail(l, "add_item_error", err)
	}

	l.Info("item_added", "user_id", userID, "product_id", req.ProductID, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "update_item_error", err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return fail(l, "update_item_error", err)
	}

	var req transport.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "update_item_error", badRequest("invalid body"))
	}
	if err := echo.QueryParamsBinder(c).Int("quantity", &req.Quantity).BindError(); err != nil {
		return fail(l, "update_item_error", badRequest("quantity must be an integer"))
	}

	cart, err := h.Svc.UpdateItem(ctx, userID, itemID, req.Quantity)
	if err != nil {
		return fail(l, "update_item_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "remove_item_error", err)
	}
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return fail(l, "remove_item_error", err)
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return fail(l, "remove_item_error", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}

	cart, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("cart_cleared", "user_id", userID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) Price(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.price")

	userID, err := parseID(c, "userId")
	if err != nil {
		return fail(l, "price_cart_error", err)
	}

	price, err := h.Svc.PriceForUser(ctx, userID)
	if err != nil {
		return fail(l, "price_cart_error", err)
	}
	return c.JSON(http.StatusOK, price)
}

// PlaceOrder runs checkout for the user given in the body or the userId query
// parameter, defaulting to the authenticated user.
func (h *CartHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "checkout_error", badRequest("invalid body"))
	}
	if err := echo.QueryParamsBinder(c).
		Uint("userId", &req.UserID).
		Uint("addressId", &req.AddressID).
		String("shipping", &req.Shipping).
		String("method", &req.Method).
		BindError(); err != nil {
		return fail(l, "checkout_error", badRequest("invalid query parameters"))
	}
	if req.UserID == 0 {
		req.UserID = callerID(c)
	}
	if req.UserID != 0 && !canAccess(c, req.UserID) {
		return fail(l, "checkout_error", forbidden())
	}

	res, err := h.Checkout.Checkout(ctx, req.UserID, req.AddressID, req.Shipping, req.Method)
	if err != nil {
		return fail(l, "checkout_error", err)
	}
	return c.JSON(http.StatusOK, res)
}
