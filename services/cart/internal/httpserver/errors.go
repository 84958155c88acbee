package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/service"
)

func badRequest(msg string) error {
	return httperr.New(http.StatusBadRequest, httperr.CodeValidation, msg)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(name + " must be a positive integer")
	}
	return uint(id), nil
}

func fail(l *slog.Logger, event string, err error) error {
	var herr *httperr.Error
	switch {
	case errors.As(err, &herr):
	case errors.Is(err, service.ErrValidation):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		herr = httperr.New(http.StatusNotFound, httperr.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrUpstream):
		l.Error(event, "status", http.StatusBadGateway, "error", err)
		return httperr.New(http.StatusBadGateway, httperr.CodeBadGateway, err.Error())
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return httperr.New(http.StatusInternalServerError, httperr.CodeInternal, "internal server error")
	}

	l.Warn(event, "status", herr.Status, "reason", herr.Message, "error", err)
	return herr
}

// canAccess reports whether the authenticated caller may act for userID.
func canAccess(c echo.Context, userID uint) bool {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return false
	}
	if claims.IsAdmin() {
		return true
	}
	id, err := claims.UserID()
	return err == nil && id == userID
}

// callerID returns the authenticated customer id, or 0.
func callerID(c echo.Context) uint {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return 0
	}
	id, _ := claims.UserID()
	return id
}

func forbidden() error {
	return httperr.New(http.StatusForbidden, "FORBIDDEN", "access to another user's cart is not allowed")
}

// RequireOwner guards /cart/:userId routes.
func RequireOwner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := parseID(c, "userId")
		if err != nil {
			return err
		}
		if !canAccess(c, userID) {
			return forbidden()
		}
		return next(c)
	}
}
