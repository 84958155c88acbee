package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/services/payment/internal/models"
)

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.DB.WithContext(ctx).Where("payment_id = ?", paymentID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListByOrder(ctx context.Context, orderID string) ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	if err := r.DB.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SetStatus records the decided status and payment time; it fails with
// gorm.ErrRecordNotFound for an unknown payment.
func (r *GormRepo) SetStatus(ctx context.Context, paymentID string, status models.Status, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("payment_id = ?", paymentID).
		Updates(map[string]any{"status": status, "payment_date": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
