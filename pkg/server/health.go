package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/pkg/logging"
)

// Check reports whether one dependency can serve traffic.
type Check func(context.Context) error

const checkTimeout = 2 * time.Second

// Health mounts /health/live, which always answers 200, and /health/ready,
// which answers 503 listing the failing checks by name.
func Health(e *echo.Echo, checks map[string]Check) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
		defer cancel()

		var failed []string
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logging.FromContext(ctx).Warn("readiness_check_failed", "check", name, "error", err)
				failed = append(failed, name)
			}
		}
		if len(failed) > 0 {
			sort.Strings(failed)
			return c.JSON(http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}
