package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
)

func notFoundIfNone(rows int64) error {
	if rows == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) UpsertProfile(ctx context.Context, p *models.Profile) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "avatar_url"}),
	}).Create(p).Error
}

func (r *GormRepo) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	var p models.Profile
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	out := make([]models.Address, 0)
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC, id ASC").Find(&out).Error
	return out, err
}

// AddAddress stores a; the first address of a user, or one flagged default, becomes the only default.
func (r *GormRepo) AddAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", a.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			if err := tx.Model(&models.Address{}).Where("user_id = ?", a.UserID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(a).Error
	})
}

func (r *GormRepo) DeleteAddress(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return res.Error
	}
	return notFoundIfNone(res.RowsAffected)
}

func (r *GormRepo) ListPaymentMethods(ctx context.Context, userID uint) ([]models.PaymentMethod, error) {
	out := make([]models.PaymentMethod, 0)
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC, id ASC").Find(&out).Error
	return out, err
}

func (r *GormRepo) AddPaymentMethod(ctx context.Context, m *models.PaymentMethod) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.IsDefault {
			if err := tx.Model(&models.PaymentMethod{}).Where("user_id = ?", m.UserID).Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(m).Error
	})
}

func (r *GormRepo) DeletePaymentMethod(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.PaymentMethod{})
	if res.Error != nil {
		return res.Error
	}
	return notFoundIfNone(res.RowsAffected)
}

func (r *GormRepo) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	out := make([]models.WishlistItem, 0)
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

// AddToWishlist is idempotent per user and product.
func (r *GormRepo) AddToWishlist(ctx context.Context, userID, productID uint) (*models.WishlistItem, error) {
	item := models.WishlistItem{UserID: userID, ProductID: productID}
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		FirstOrCreate(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveFromWishlist(ctx context.Context, userID, productID uint) error {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	return notFoundIfNone(res.RowsAffected)
}

func (r *GormRepo) RemoveWishlistItem(ctx context.Context, userID, id uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	return notFoundIfNone(res.RowsAffected)
}
