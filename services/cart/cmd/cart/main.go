package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/oss_shop/pkg/authclient"
	"github.com/Skotchmaster/oss_shop/pkg/catalogclient"
	pkgdb "github.com/Skotchmaster/oss_shop/pkg/db"
	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/orderclient"
	"github.com/Skotchmaster/oss_shop/pkg/paymentclient"
	"github.com/Skotchmaster/oss_shop/pkg/server"

	cartcfg "github.com/Skotchmaster/oss_shop/services/cart/internal/config"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/httpserver"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/models"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/cart/internal/service"
)

func main() {
	if err := godotenv.Load("services/cart/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := cartcfg.Load()

	logger := logging.Setup(cfg.ServiceName, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, pkgdb.Options{Driver: cfg.DBDriver, SQLDriver: cfg.DBSQLDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	publisher, err := events.New(cfg.Config)
	if err != nil {
		log.Fatalf("events: %v", err)
	}

	cartSvc := &service.CartService{
		Repo:    &repo.GormRepo{DB: db},
		Catalog: catalogclient.New(cfg.CatalogURL, cfg.HTTPClientTimeout),
		Events:  publisher,
	}
	checkoutSvc := &service.CheckoutService{
		Carts:    cartSvc,
		Orders:   orderclient.New(cfg.OrderURL, cfg.HTTPClientTimeout),
		Payments: paymentclient.New(cfg.PaymentURL, cfg.HTTPClientTimeout),
		Events:   publisher,
	}

	e := server.NewEcho(logger)
	server.Health(e, map[string]server.Check{"db": pkgdb.Ping(db)})

	httpserver.Register(e, &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{Svc: cartSvc, Checkout: checkoutSvc},
		JWTSecret:   cfg.JWTAccessSecret,
		AuthClient:  authclient.NewClient(cfg.AuthHTTPURL, cfg.HTTPClientTimeout),
	})

	if err := server.Run(logger, cfg.Addr(), e,
		func() { _ = publisher.Close() },
		func() { pkgdb.Close(db) },
	); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
