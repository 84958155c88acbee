package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/oss_shop/pkg/middleware/logging"
)

// maxBody covers product image uploads proxied to the catalog.
const maxBody = "10M"

// Common is the edge chain applied before routing. Browsers send cookies
// cross-origin, so CORS allows credentials and exposes the CSRF and
// request id headers to scripts.
func Common(logger *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(logger),
		ecM.Secure(),
		ecM.BodyLimit(maxBody),
		ecM.CORSWithConfig(ecM.CORSConfig{
			AllowCredentials: true,
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept, "X-CSRF-Token"},
			ExposeHeaders:    []string{"X-CSRF-Token", echo.HeaderXRequestID},
		}),
	}
}
