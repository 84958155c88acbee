package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/service"
)

func badRequest(msg string) error {
	return httperr.New(http.StatusBadRequest, httperr.CodeValidation, msg)
}

func fail(l *slog.Logger, event string, err error) error {
	var herr *httperr.Error
	switch {
	case errors.As(err, &herr):
	case errors.Is(err, service.ErrValidation):
		herr = httperr.New(http.StatusBadRequest, httperr.CodeValidation, err.Error())
	case errors.Is(err, service.ErrNotFound):
		herr = httperr.New(http.StatusNotFound, httperr.CodePaymentNotFound, err.Error())
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return httperr.New(http.StatusInternalServerError, httperr.CodeInternal, "internal server error")
	}

	l.Warn(event, "status", herr.Status, "reason", herr.Message, "error", err)
	return herr
}
