package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	pkg_hash "github.com/Skotchmaster/oss_shop/pkg/hash"
	jwthelp "github.com/Skotchmaster/oss_shop/pkg/jwt"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/tokens"
	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
	"github.com/Skotchmaster/oss_shop/services/user/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/user/internal/transport"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Now           func() time.Time
}

type LoginResult struct {
	UserID       uint
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (h *AuthService) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *AuthService) CreateAccessToken(role, id string, accessExp time.Time) (string, error) {
	accessClaims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(h.JWTSecret)
}

func (h *AuthService) CreateRefreshToken(id string, refreshExp time.Time) (string, string, error) {
	jti := jwthelp.NewJTI()
	refreshClaims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jti,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(h.RefreshSecret)
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

func (h *AuthService) issue(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	id := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := h.now().Add(AccessTTL)
	accessToken, err := h.CreateAccessToken(user.Role, id, accessExp)
	if err != nil {
		return nil, nil, err
	}

	refreshExp := h.now().Add(RefreshTTL)
	refreshToken, jti, err := h.CreateRefreshToken(id, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	stored := &models.RefreshToken{
		Token:     jwthelp.Sha256Hex(refreshToken),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}

	return &LoginResult{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      user.Role == tokens.RoleAdmin,
	}, stored, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (h *AuthService) createUser(ctx context.Context, email, phone, password string) (*models.User, error) {
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        optional(strings.ToLower(email)),
		Phone:        optional(phone),
		PasswordHash: pwHash,
		Role:         tokens.RoleUser,
	}
	if err := h.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (h *AuthService) Register(ctx context.Context, email, phone, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if strings.TrimSpace(email) == "" && strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("%w: email or phone is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	user, err := h.createUser(ctx, email, phone, password)
	if err != nil {
		return nil, err
	}

	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

// RegisterStub creates an account with an unknown random password, for guest checkouts.
func (h *AuthService) RegisterStub(ctx context.Context, email, phone string) (*models.User, error) {
	if strings.TrimSpace(email) == "" && strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("%w: email or phone is required", ErrValidation)
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return h.createUser(ctx, email, phone, hex.EncodeToString(buf))
}

func (h *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var (
		user *models.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = h.Repo.GetUserByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = h.Repo.GetUserByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "user_id", user.ID, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}
	if pkg_hash.NeedsRehash(user.PasswordHash) {
		h.rehash(ctx, user.ID, password)
	}

	res, stored, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	if err := h.Repo.AddRefreshToken(ctx, stored); err != nil {
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// rehash upgrades a stored hash to the current cost. Failure keeps the old
// hash, which still verifies.
func (h *AuthService) rehash(ctx context.Context, userID uint, password string) {
	l := logging.FromContext(ctx)
	pwHash, err := pkg_hash.HashPassword(password)
	if err == nil {
		err = h.Repo.SetPasswordHash(ctx, userID, pwHash)
	}
	if err != nil {
		l.Warn("password_rehash_failed", "user_id", userID, "error", err)
	}
}

// Refresh rotates refreshToken: the old token is revoked and a new pair is issued.
func (h *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, h.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrUnauthorized)
	}

	user, err := h.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
		}
		return nil, err
	}

	res, stored, err := h.issue(user)
	if err != nil {
		return nil, err
	}
	if err := h.Repo.RotateRefreshToken(ctx, claims.ID, stored); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, repo.ErrTokenExpiredOrRevoked) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return nil, err
	}
	return res, nil
}

func (h *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return h.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (h *AuthService) SetPassword(ctx context.Context, userID uint, password string) error {
	if err := pkg_hash.ValidatePassword(password); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return err
	}
	if err := h.Repo.SetPasswordHash(ctx, userID, pwHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}
	return nil
}

func (h *AuthService) GetUserDetails(ctx context.Context, userID uint) (*transport.UserDetails, error) {
	user, err := h.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	details := &transport.UserDetails{ID: user.ID, MFAEnabled: user.MFAEnabled}
	if user.Email != nil {
		details.Email = *user.Email
	}
	if user.Phone != nil {
		details.Phone = *user.Phone
	}
	return details, nil
}
