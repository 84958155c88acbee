package repo

import (
	"context"

	"github.com/Skotchmaster/oss_shop/services/catalog/internal/models"
)

type ReviewStats struct {
	Average float64
	Count   int64
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormRepo) ReviewStats(ctx context.Context, productID uint) (ReviewStats, error) {
	var stats ReviewStats
	err := r.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&stats).Error
	return stats, err
}
