package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	middleware "github.com/Skotchmaster/oss_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/oss_shop/services/user/internal/service"
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
	case errors.Is(err, service.ErrConflict):
		herr = httperr.New(http.StatusConflict, httperr.CodeConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		herr = httperr.New(http.StatusUnauthorized, httperr.CodeUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		herr = httperr.New(http.StatusUnauthorized, httperr.CodeUnauthorized, "invalid or expired refresh token")
	case errors.Is(err, service.ErrOTPExpired):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeOTPExpired, "otp expired")
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return httperr.New(http.StatusInternalServerError, httperr.CodeInternal, "internal server error")
	}

	l.Warn(event, "status", herr.Status, "reason", herr.Message, "error", err)
	return herr
}

// RequireSelf lets a user reach only their own :userId resources; admins reach all.
func RequireSelf(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.ClaimsFrom(c)
		if ok && claims.IsAdmin() {
			return next(c)
		}
		if !ok || claims.Subject == "" || claims.Subject != c.Param("userId") {
			return httperr.New(http.StatusForbidden, "FORBIDDEN", "access to another user's data is not allowed")
		}
		return next(c)
	}
}
