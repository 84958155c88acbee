package tokens

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

var hs256 = jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})

// parse verifies an HS256 token against secret and decodes it into a
// fresh *T. Expiry surfaces as jwt.ErrTokenExpired so callers can tell a
// stale session from a forged one.
func parse[T any, PT interface {
	*T
	jwt.Claims
}](raw string, secret []byte) (*T, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := PT(new(T))
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, hs256)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return (*T)(claims), nil
}

func AccessClaimsFromToken(raw string, secret []byte) (*AccessClaims, error) {
	return parse[AccessClaims](raw, secret)
}

func RefreshClaimsFromToken(raw string, secret []byte) (*RefreshClaims, error) {
	return parse[RefreshClaims](raw, secret)
}
