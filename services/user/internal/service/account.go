package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/orderclient"
	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
	"github.com/Skotchmaster/oss_shop/services/user/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/user/internal/transport"
)

type OrderLister interface {
	ListByUser(ctx context.Context, userID uint) ([]orderclient.Order, error)
}

type AccountService struct {
	Repo   *repo.GormRepo
	Orders OrderLister
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func (s *AccountService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	p, err := s.Repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return p, nil
}

func (s *AccountService) UpsertProfile(ctx context.Context, userID uint, req transport.ProfileRequest) (*models.Profile, error) {
	if _, err := s.Repo.GetUserByID(ctx, userID); err != nil {
		return nil, notFound(err, "user")
	}
	p := &models.Profile{
		UserID:    userID,
		FullName:  strings.TrimSpace(req.FullName),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
	}
	if err := s.Repo.UpsertProfile(ctx, p); err != nil {
		return nil, err
	}
	return s.Repo.GetProfile(ctx, userID)
}

func (s *AccountService) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *AccountService) AddAddress(ctx context.Context, userID uint, req transport.AddressRequest) (*models.Address, error) {
	a := &models.Address{
		UserID:     userID,
		FullName:   strings.TrimSpace(req.FullName),
		Phone:      strings.TrimSpace(req.Phone),
		Line1:      strings.TrimSpace(req.Line1),
		Line2:      strings.TrimSpace(req.Line2),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		PostalCode: strings.TrimSpace(req.PostalCode),
		Country:    strings.TrimSpace(req.Country),
		IsDefault:  req.IsDefault,
	}
	if a.Line1 == "" || a.City == "" || a.State == "" || a.PostalCode == "" || a.Country == "" {
		return nil, fmt.Errorf("%w: line1, city, state, postal_code and country are required", ErrValidation)
	}
	if err := s.Repo.AddAddress(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID, id uint) error {
	return notFound(s.Repo.DeleteAddress(ctx, userID, id), "address")
}

func (s *AccountService) ListPaymentMethods(ctx context.Context, userID uint) ([]models.PaymentMethod, error) {
	return s.Repo.ListPaymentMethods(ctx, userID)
}

func (s *AccountService) AddPaymentMethod(ctx context.Context, userID uint, req transport.PaymentMethodRequest) (*models.PaymentMethod, error) {
	m := &models.PaymentMethod{
		UserID:      userID,
		Provider:    strings.TrimSpace(req.Provider),
		Token:       strings.TrimSpace(req.Token),
		DisplayName: strings.TrimSpace(req.DisplayName),
		PaymentType: strings.ToUpper(strings.TrimSpace(req.PaymentType)),
		IsDefault:   req.IsDefault,
	}
	if m.Provider == "" || m.Token == "" {
		return nil, fmt.Errorf("%w: provider and token are required", ErrValidation)
	}
	if err := s.Repo.AddPaymentMethod(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *AccountService) DeletePaymentMethod(ctx context.Context, userID, id uint) error {
	return notFound(s.Repo.DeletePaymentMethod(ctx, userID, id), "payment method")
}

func (s *AccountService) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	return s.Repo.ListWishlist(ctx, userID)
}

func (s *AccountService) AddToWishlist(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id is required", ErrValidation)
	}
	return s.Repo.AddToWishlist(ctx, userID, productID)
}

func (s *AccountService) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	return notFound(s.Repo.RemoveFromWishlist(ctx, userID, productID), "wishlist item")
}

func (s *AccountService) RemoveWishlistItem(ctx context.Context, userID, id uint) error {
	return notFound(s.Repo.RemoveWishlistItem(ctx, userID, id), "wishlist item")
}

func (s *AccountService) OrderHistory(ctx context.Context, userID uint) ([]orderclient.Order, error) {
	if s.Orders == nil {
		return []orderclient.Order{}, nil
	}
	orders, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}
