package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/oss_shop/gateway/internal/config"
	"github.com/Skotchmaster/oss_shop/gateway/internal/httpserver"
	"github.com/Skotchmaster/oss_shop/gateway/internal/middleware"
	"github.com/Skotchmaster/oss_shop/pkg/httperr"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/server"
)

func main() {
	if err := godotenv.Load("gateway/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	logger := logging.Setup(cfg.ServiceName, cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httperr.Handler
	e.Use(middleware.Common(logger)...)
	server.Health(e, nil)

	csrf := middleware.DefaultCSRFConfig()
	csrf.Secure = cfg.CSRFCookieSecure
	csrf.SkipPaths = []string{"/api/v1/auth/login", "/api/v1/auth/register", "/api/v1/auth/refresh"}

	if err := httpserver.Register(e, &httpserver.Deps{
		UserURL:    cfg.UserURL,
		CatalogURL: cfg.CatalogURL,
		CartURL:    cfg.CartURL,
		OrderURL:   cfg.OrderURL,
		PaymentURL: cfg.PaymentURL,
		CSRFConfig: csrf,
		JWTSecret:  cfg.JWTAccessSecret,
	}); err != nil {
		log.Fatal(err)
	}

	if err := server.Run(logger, cfg.Addr(), e); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
