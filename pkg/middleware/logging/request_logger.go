package loggingmw

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
)

// RequestLogger attaches a request-scoped logger to the context and writes
// one access line per request. Health checks are logged at debug level.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			l := base.With(
				"request_id", rid,
				"method", req.Method,
				"route", c.Path(),
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			logCompletion(l, c, err, time.Since(start))
			return nil
		}
	}
}

func logCompletion(l *slog.Logger, c echo.Context, err error, took time.Duration) {
	status := c.Response().Status
	attrs := []any{"status", status, "duration_ms", took.Milliseconds()}

	switch {
	case err != nil && status >= 500:
		l.Error("request completed", append(attrs, "error", err.Error())...)
	case status >= 500:
		l.Error("request completed", attrs...)
	case status >= 400:
		l.Warn("request completed", attrs...)
	case strings.HasPrefix(c.Request().URL.Path, "/health/"):
		l.Debug("request completed", attrs...)
	default:
		l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
	}
}
