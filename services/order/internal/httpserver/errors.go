package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/services/order/internal/service"
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

func orderID(c echo.Context) (string, error) {
	id := strings.TrimSpace(c.Param("orderId"))
	if id == "" {
		return "", badRequest("orderId is required")
	}
	return id, nil
}

func fail(l *slog.Logger, event string, err error) error {
	var herr *httperr.Error
	switch {
	case errors.As(err, &herr):
	case errors.Is(err, service.ErrValidation):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		herr = httperr.New(http.StatusNotFound, httperr.CodeOrderNotFound, err.Error())
	case errors.Is(err, service.ErrModificationNotAllowed):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeOrderModification, err.Error())
	case errors.Is(err, service.ErrCancellationNotAllowed):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeOrderCancellation, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeInvalidTransition, err.Error())
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return httperr.New(http.StatusInternalServerError, httperr.CodeInternal, "internal server error")
	}

	l.Warn(event, "status", herr.Status, "reason", herr.Message, "error", err)
	return herr
}
