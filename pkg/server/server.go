// Package server holds the echo setup and process lifecycle shared by the
// shop services.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	loggingmw "github.com/Skotchmaster/oss_shop/pkg/middleware/logging"
)

const shutdownTimeout = 10 * time.Second

// NewEcho returns an echo instance rendering errors as the shared JSON body,
// with panic recovery, request ids, access logging and CORS installed.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httperr.Handler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	return e
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Run serves h on addr until SIGINT or SIGTERM, then drains in-flight
// requests and runs cleanup in order. It returns the listen error, if any.
func Run(logger *slog.Logger, addr string, h http.Handler, cleanup ...func()) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, logger, newHTTPServer(addr, h), cleanup...)
}

func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, cleanup ...func()) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	for _, fn := range cleanup {
		fn()
	}
	logger.Info("stopped")
	return runErr
}
