package repo

import (
	"context"

	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
)

func (r *GormRepo) CreateOTP(ctx context.Context, otp *models.EmailOTP) error {
	return r.DB.WithContext(ctx).Create(otp).Error
}

// LatestOTP returns the OTP with the furthest expiry for the user and e-mail.
func (r *GormRepo) LatestOTP(ctx context.Context, userID uint, email string) (*models.EmailOTP, error) {
	var otp models.EmailOTP
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND email = ?", userID, email).
		Order("expires_at DESC, id DESC").
		First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *GormRepo) DeleteOTPs(ctx context.Context, userID uint, email string) error {
	return r.DB.WithContext(ctx).Where("user_id = ? AND email = ?", userID, email).Delete(&models.EmailOTP{}).Error
}
