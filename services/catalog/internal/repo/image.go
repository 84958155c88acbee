package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/services/catalog/internal/models"
)

func (r *GormRepo) AddImage(ctx context.Context, img *models.ProductImage) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&models.ProductImage{}).
			Select("COALESCE(MAX(sort_order), -1) + 1").
			Where("product_id = ?", img.ProductID).
			Scan(&next).Error; err != nil {
			return err
		}
		img.SortOrder = next
		return tx.Create(img).Error
	})
}

func (r *GormRepo) SetImageURL(ctx context.Context, id uint, url string) error {
	return r.DB.WithContext(ctx).Model(&models.ProductImage{}).Where("id = ?", id).Update("image_url", url).Error
}

func (r *GormRepo) GetImage(ctx context.Context, id uint) (*models.ProductImage, error) {
	var img models.ProductImage
	if err := r.DB.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}
