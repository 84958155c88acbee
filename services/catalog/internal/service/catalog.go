package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/transport"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Searcher is a full-text product index.
type Searcher interface {
	Index(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, offset, limit int) (int64, []uint, error)
}

// ImageStore keeps image bytes outside the database and returns a public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search Searcher
	Images ImageStore
	Events events.Publisher
}

type ProductEvent struct {
	Type               string                    `json:"type"`
	ProductID          uint                      `json:"product_id"`
	SKU                string                    `json:"sku,omitempty"`
	Stock              int                       `json:"stock"`
	AvailabilityStatus models.AvailabilityStatus `json:"availability_status,omitempty"`
	At                 time.Time                 `json:"at"`
}

type ProductDetail struct {
	models.Product
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
	Reviews       []models.Review `json:"reviews"`
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: product", ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: sku already exists", ErrConflict)
	case errors.Is(err, repo.ErrInsufficientStock):
		return ErrInsufficientStock
	default:
		return err
	}
}

func (s *CatalogService) emit(ctx context.Context, typ string, p *models.Product) {
	events.Emit(ctx, s.Events, events.TopicProducts, strconv.FormatUint(uint64(p.ID), 10), ProductEvent{
		Type:               typ,
		ProductID:          p.ID,
		SKU:                p.SKU,
		Stock:              p.Stock,
		AvailabilityStatus: p.AvailabilityStatus,
		At:                 time.Now().UTC(),
	})
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*ProductDetail, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	stats, err := s.Repo.ReviewStats(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Repo.ListReviews(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductDetail{
		Product:       *prod,
		AverageRating: stats.Average,
		ReviewCount:   stats.Count,
		Reviews:       reviews,
	}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return 0, nil, fmt.Errorf("%w: min_price is greater than max_price", ErrValidation)
	}
	return s.Repo.ListProducts(ctx, f, offset, limit)
}

// SearchProducts queries the search index and falls back to SQL matching when it is absent or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: q is required", ErrValidation)
	}

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.GetProductsByIDs(ctx, ids)
			return total, items, err
		}
		logging.FromContext(ctx).Warn("search_index_query_failed", "q", q, "error", err)
	}

	return s.Repo.ListProducts(ctx, repo.ProductFilter{Q: q}, offset, limit)
}

func (s *CatalogService) BatchProducts(ctx context.Context, ids []uint) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	return s.Repo.GetProductsByIDs(ctx, ids)
}

func normalizeCurrency(c string) (string, error) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return "USD", nil
	}
	if len(c) != 3 {
		return "", fmt.Errorf("%w: currency must be a 3-letter code", ErrValidation)
	}
	return c, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	req.SKU = strings.TrimSpace(req.SKU)
	req.Name = strings.TrimSpace(req.Name)
	if req.SKU == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: sku and name are required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}
	currency, err := normalizeCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	prod := &models.Product{
		SKU:                req.SKU,
		Name:               req.Name,
		Brand:              strings.TrimSpace(req.Brand),
		Description:        req.Description,
		Price:              req.Price.Round(2),
		Currency:           currency,
		Stock:              req.Stock,
		AvailabilityStatus: models.AvailabilityFor(req.Stock),
		Specifications:     datatypes.JSONMap(req.Specifications),
	}
	if err := s.Repo.CreateProduct(ctx, prod, req.Categories); err != nil {
		return nil, mapErr(err)
	}

	s.index(ctx, prod)
	s.emit(ctx, "product_created", prod)
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}

	if req.SKU != nil {
		if strings.TrimSpace(*req.SKU) == "" {
			return nil, fmt.Errorf("%w: sku cannot be empty", ErrValidation)
		}
		prod.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		prod.Name = strings.TrimSpace(*req.Name)
	}
	if req.Brand != nil {
		prod.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
		}
		prod.Price = req.Price.Round(2)
	}
	if req.Currency != nil {
		c, err := normalizeCurrency(*req.Currency)
		if err != nil {
			return nil, err
		}
		prod.Currency = c
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		prod.Stock = *req.Stock
	}
	if req.Specifications != nil {
		prod.Specifications = datatypes.JSONMap(req.Specifications)
	}
	prod.AvailabilityStatus = models.AvailabilityFor(prod.Stock)

	if err := s.Repo.SaveProduct(ctx, prod, req.Categories); err != nil {
		return nil, mapErr(err)
	}

	s.index(ctx, prod)
	s.emit(ctx, "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return mapErr(err)
	}

	if s.Search != nil {
		if err := s.Search.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_failed", "product_id", id, "error", err)
		}
	}
	s.emit(ctx, "product_deleted", &models.Product{ID: id})
	return nil
}

// CheckStock reports whether quantity units can be sold; lookup failures read as unavailable.
func (s *CatalogService) CheckStock(ctx context.Context, id uint, quantity int) bool {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Warn("check_stock_failed", "product_id", id, "error", err)
		return false
	}
	return prod.Stock >= quantity && prod.AvailabilityStatus != models.OutOfStock
}

func (s *CatalogService) ReduceStock(ctx context.Context, id uint, quantity int) (*models.Product, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	prod, err := s.Repo.ReduceStock(ctx, id, quantity)
	if err != nil {
		return nil, mapErr(err)
	}

	s.emit(ctx, "stock_reduced", prod)
	return prod, nil
}

func ImagePath(id uint) string {
	return "/api/products/image/" + strconv.FormatUint(uint64(id), 10)
}

// UploadImage stores the image in the object store when configured, otherwise in the database.
func (s *CatalogService) UploadImage(ctx context.Context, productID uint, filename, contentType string, data []byte) (*models.ProductImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrValidation)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %q", ErrValidation, contentType)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, mapErr(err)
	}

	img := &models.ProductImage{
		ProductID:   productID,
		ContentType: contentType,
		AltText:     filename,
	}
	if s.Images != nil {
		key := fmt.Sprintf("products/%d/%d-%s", productID, time.Now().UnixNano(), filename)
		url, err := s.Images.Put(ctx, key, contentType, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		img.ImageURL = url
	} else {
		img.Data = data
	}

	if err := s.Repo.AddImage(ctx, img); err != nil {
		return nil, err
	}
	if img.ImageURL == "" {
		img.ImageURL = ImagePath(img.ID)
		if err := s.Repo.SetImageURL(ctx, img.ID, img.ImageURL); err != nil {
			return nil, err
		}
	}
	return img, nil
}

func (s *CatalogService) GetImage(ctx context.Context, id uint) (*models.ProductImage, error) {
	img, err := s.Repo.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: image", ErrNotFound)
		}
		return nil, err
	}
	return img, nil
}

func (s *CatalogService) CreateReview(ctx context.Context, productID uint, req transport.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		return nil, mapErr(err)
	}

	review := &models.Review{
		ProductID:        productID,
		UserID:           req.UserID,
		UserName:         req.UserName,
		UserAvatar:       req.UserAvatar,
		Rating:           req.Rating,
		Title:            req.Title,
		Comment:          req.Comment,
		VerifiedPurchase: req.VerifiedPurchase,
	}
	if err := s.Repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *CatalogService) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.Repo.ListReviews(ctx, productID)
}

func (s *CatalogService) AverageRating(ctx context.Context, productID uint) (float64, error) {
	stats, err := s.Repo.ReviewStats(ctx, productID)
	if err != nil {
		return 0, err
	}
	return decimal.NewFromFloat(stats.Average).Round(2).InexactFloat64(), nil
}

func (s *CatalogService) CountReviews(ctx context.Context, productID uint) (int64, error) {
	stats, err := s.Repo.ReviewStats(ctx, productID)
	if err != nil {
		return 0, err
	}
	return stats.Count, nil
}
