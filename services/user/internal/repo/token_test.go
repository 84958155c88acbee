package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/oss_shop/pkg/db/dbtest"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	return &GormRepo{DB: dbtest.New(t, models.All()...)}
}

func refresh(userID uint, raw, jti string, exp time.Time) *models.RefreshToken {
	return &models.RefreshToken{
		Token:     jwthelp.Sha256Hex(raw),
		UserID:    userID,
		JTI:       jti,
		ExpiresAt: exp.Unix(),
	}
}

func TestRotateRefreshToken(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.AddRefreshToken(ctx, refresh(1, "raw-1", "jti-1", exp)))
	require.NoError(t, r.RotateRefreshToken(ctx, "jti-1", refresh(1, "raw-2", "jti-2", exp)))

	revoked, err := r.RefreshExpiredOrRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = r.RefreshExpiredOrRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	err = r.RotateRefreshToken(ctx, "jti-1", refresh(1, "raw-3", "jti-3", exp))
	require.ErrorIs(t, err, ErrTokenExpiredOrRevoked)

	_, err = r.RefreshExpiredOrRevoked(ctx, "jti-3")
	require.Error(t, err, "failed rotation must not store the new token")
}

func TestRotateRefreshToken_Expired(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddRefreshToken(ctx, refresh(1, "raw-1", "jti-1", time.Now().Add(-time.Minute))))
	err := r.RotateRefreshToken(ctx, "jti-1", refresh(1, "raw-2", "jti-2", time.Now().Add(time.Hour)))
	require.ErrorIs(t, err, ErrTokenExpiredOrRevoked)
}

func TestRevokeRefreshToken(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddRefreshToken(ctx, refresh(1, "raw-1", "jti-1", time.Now().Add(time.Hour))))
	require.NoError(t, r.RevokeRefreshToken(ctx, "raw-1"))

	revoked, err := r.RefreshExpiredOrRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLatestOTP(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, r.CreateOTP(ctx, &models.EmailOTP{UserID: 1, Email: "a@b.c", Code: "111111", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, r.CreateOTP(ctx, &models.EmailOTP{UserID: 1, Email: "a@b.c", Code: "222222", ExpiresAt: now.Add(2 * time.Minute)}))
	require.NoError(t, r.CreateOTP(ctx, &models.EmailOTP{UserID: 2, Email: "a@b.c", Code: "333333", ExpiresAt: now.Add(3 * time.Minute)}))

	otp, err := r.LatestOTP(ctx, 1, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "222222", otp.Code)

	require.NoError(t, r.DeleteOTPs(ctx, 1, "a@b.c"))
	_, err = r.LatestOTP(ctx, 1, "a@b.c")
	require.Error(t, err)

	otp, err = r.LatestOTP(ctx, 2, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "333333", otp.Code)
}

func TestSetMFAEnabled_MissingUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.ErrorIs(t, r.SetMFAEnabled(ctx, 42, true), gorm.ErrRecordNotFound)

	email := "ann@example.com"
	u := &models.User{Email: &email, PasswordHash: "x"}
	require.NoError(t, r.DB.WithContext(ctx).Create(u).Error)
	require.NoError(t, r.SetMFAEnabled(ctx, u.ID, true))

	got, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.MFAEnabled)
}
