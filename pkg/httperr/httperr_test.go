package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, err error) (*httptest.ResponseRecorder, Body) {
	t.Helper()

	e := echo.New()
	e.HTTPErrorHandler = Handler
	e.GET("/api/orders/:orderId", func(c echo.Context) error { return err })

	req := httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body Body
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "named error",
			err:        New(http.StatusNotFound, CodeOrderNotFound, "order abc not found"),
			wantStatus: http.StatusNotFound,
			wantCode:   CodeOrderNotFound,
			wantMsg:    "order abc not found",
		},
		{
			name:       "wrapped named error",
			err:        fmt.Errorf("handler: %w", New(http.StatusBadRequest, CodeOrderCancellation, "shipped")),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeOrderCancellation,
			wantMsg:    "shipped",
		},
		{
			name:       "echo error",
			err:        echo.NewHTTPError(http.StatusUnauthorized, "missing access token"),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "UNAUTHORIZED",
			wantMsg:    "missing access token",
		},
		{
			name:       "generic error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternal,
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, body := serve(t, tt.err)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantCode, body.Error)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, "/api/orders/abc", body.Path)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestCodeForStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BAD_GATEWAY", CodeForStatus(http.StatusBadGateway))
	assert.Equal(t, "NOT_FOUND", CodeForStatus(http.StatusNotFound))
	assert.Equal(t, CodeInternal, CodeForStatus(999))
}
