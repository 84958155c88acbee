// Package httperr renders every handler error as the shared JSON error body
// {timestamp, status, error, message, path}.
package httperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeConflict          = "CONFLICT"
	CodeBadGateway        = "BAD_GATEWAY"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeOrderModification = "ORDER_MODIFICATION_NOT_ALLOWED"
	CodeOrderCancellation = "ORDER_CANCELLATION_NOT_ALLOWED"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodePaymentNotFound   = "PAYMENT_NOT_FOUND"
	CodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	CodeOTPExpired        = "OTP_EXPIRED"
	CodeNotFound          = "NOT_FOUND"
)

type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

type Body struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func CodeForStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return CodeInternal
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}

func Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	code := CodeInternal
	msg := "internal server error"

	var he *Error
	var ee *echo.HTTPError
	switch {
	case errors.As(err, &he):
		status, code, msg = he.Status, he.Code, he.Message
	case errors.As(err, &ee):
		status = ee.Code
		code = CodeForStatus(status)
		msg = fmt.Sprint(ee.Message)
	}

	body := Body{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     code,
		Message:   msg,
		Path:      c.Request().URL.Path,
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		slog.Default().Error("error_response_failed", "error", werr)
	}
}
