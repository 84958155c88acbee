package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/notify"
	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
	"github.com/Skotchmaster/oss_shop/services/user/internal/repo"
)

const OTPTTL = 5 * time.Minute

type OTPService struct {
	Repo   *repo.GormRepo
	Mailer notify.Mailer
	Now    func() time.Time
	// Generate overrides the random code source.
	Generate func() (string, error)
}

func (s *OTPService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *OTPService) SendOTP(ctx context.Context, userID uint, email string) (*models.EmailOTP, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if userID == 0 || email == "" {
		return nil, fmt.Errorf("%w: user_id and email are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	if user.Email == nil || strings.ToLower(*user.Email) != email {
		return nil, fmt.Errorf("%w: email does not belong to user", ErrValidation)
	}

	gen := s.Generate
	if gen == nil {
		gen = randomCode
	}
	code, err := gen()
	if err != nil {
		return nil, err
	}

	otp := &models.EmailOTP{
		UserID:    userID,
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(OTPTTL).UTC(),
	}
	if err := s.Repo.CreateOTP(ctx, otp); err != nil {
		return nil, err
	}

	if s.Mailer != nil {
		err := s.Mailer.Send(ctx, notify.Message{
			To:       email,
			Subject:  "Your verification code",
			TextBody: fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(OTPTTL.Minutes())),
			Tag:      "otp",
		})
		if err != nil {
			return nil, fmt.Errorf("send otp: %w", err)
		}
	}
	return otp, nil
}

// VerifyOTP checks code against the newest OTP. A code is still good at the
// exact expiry instant; after it the OTP fails even when the code matches.
func (s *OTPService) VerifyOTP(ctx context.Context, userID uint, email, code string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	otp, err := s.Repo.LatestOTP(ctx, userID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: no otp issued", ErrNotFound)
		}
		return false, err
	}
	if s.now().After(otp.ExpiresAt) {
		return false, ErrOTPExpired
	}
	if otp.Code != strings.TrimSpace(code) {
		return false, nil
	}

	if err := s.Repo.SetMFAEnabled(ctx, userID, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return false, err
	}
	if err := s.Repo.DeleteOTPs(ctx, userID, email); err != nil {
		logging.FromContext(ctx).Warn("otp_cleanup_failed", "user_id", userID, "error", err)
	}
	return true, nil
}
