package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/service"
)

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, httperr.New(http.StatusBadRequest, httperr.CodeValidation, name+" must be a positive integer")
	}
	return uint(id), nil
}

// fail logs err under event and converts it into the response error.
func fail(l *slog.Logger, event string, err error) error {
	var herr *httperr.Error
	switch {
	case errors.As(err, &herr):
	case errors.Is(err, service.ErrValidation):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		herr = httperr.New(http.StatusNotFound, httperr.CodeProductNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeInsufficientStock, err.Error())
	case errors.Is(err, service.ErrConflict):
		herr = httperr.New(http.StatusConflict, httperr.CodeConflict, err.Error())
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return httperr.New(http.StatusInternalServerError, httperr.CodeInternal, "internal server error")
	}

	l.Warn(event, "status", herr.Status, "reason", herr.Message, "error", err)
	return herr
}
