package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/catalogclient"
	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/models"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/transport"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream call failed")
)

type ProductCatalog interface {
	Batch(ctx context.Context, ids []uint) ([]catalogclient.Product, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog ProductCatalog
	Events  events.Publisher
}

type CartEvent struct {
	Type      string `json:"type"`
	UserID    uint   `json:"user_id"`
	ProductID uint   `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

func itemNotFound(err error, itemID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: item %d is not in the cart", ErrNotFound, itemID)
	}
	return err
}

func (h *CartService) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	return h.Repo.GetOrCreate(ctx, userID)
}

func (h *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int, variant string) (*models.Cart, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be more than zero", ErrValidation)
	}

	cart, err := h.Repo.AddItem(ctx, userID, productID, quantity, strings.TrimSpace(variant))
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, h.Events, events.TopicCarts, fmt.Sprint(userID), CartEvent{
		Type:      "item_added",
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	})
	return cart, nil
}

func (h *CartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be more than zero", ErrValidation)
	}
	cart, err := h.Repo.UpdateItem(ctx, userID, itemID, quantity)
	if err != nil {
		return nil, itemNotFound(err, itemID)
	}
	return cart, nil
}

func (h *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*models.Cart, error) {
	cart, err := h.Repo.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return nil, itemNotFound(err, itemID)
	}
	return cart, nil
}

func (h *CartService) Clear(ctx context.Context, userID uint) (*models.Cart, error) {
	cart, err := h.Repo.Clear(ctx, userID)
	if err != nil {
		return nil, err
	}
	events.Emit(ctx, h.Events, events.TopicCarts, fmt.Sprint(userID), CartEvent{Type: "cart_cleared", UserID: userID})
	return cart, nil
}

func productIDs(cart *models.Cart) []uint {
	seen := make(map[uint]struct{}, len(cart.Items))
	ids := make([]uint, 0, len(cart.Items))
	for _, it := range cart.Items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (h *CartService) products(ctx context.Context, cart *models.Cart) (map[uint]catalogclient.Product, error) {
	out := make(map[uint]catalogclient.Product)
	if len(cart.Items) == 0 {
		return out, nil
	}
	products, err := h.Catalog.Batch(ctx, productIDs(cart))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch products: %w", ErrUpstream, err)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func priceWith(cart *models.Cart, products map[uint]catalogclient.Product) (transport.PriceResponse, error) {
	subtotal := decimal.Zero
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return transport.PriceResponse{}, fmt.Errorf("%w: product %d", ErrNotFound, it.ProductID)
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	// no tax, shipping or discounts
	return transport.PriceResponse{Subtotal: subtotal, GrandTotal: subtotal}, nil
}

// Price sums price × quantity over the cart using one catalog batch call.
func (h *CartService) Price(ctx context.Context, cart *models.Cart) (transport.PriceResponse, error) {
	products, err := h.products(ctx, cart)
	if err != nil {
		return transport.PriceResponse{}, err
	}
	return priceWith(cart, products)
}

func (h *CartService) PriceForUser(ctx context.Context, userID uint) (transport.PriceResponse, error) {
	cart, err := h.Repo.GetOrCreate(ctx, userID)
	if err != nil {
		return transport.PriceResponse{}, err
	}
	return h.Price(ctx, cart)
}
