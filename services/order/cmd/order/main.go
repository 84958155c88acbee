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
	"github.com/Skotchmaster/oss_shop/pkg/notify"
	"github.com/Skotchmaster/oss_shop/pkg/server"
	"github.com/Skotchmaster/oss_shop/pkg/userclient"

	ordercfg "github.com/Skotchmaster/oss_shop/services/order/internal/config"
	"github.com/Skotchmaster/oss_shop/services/order/internal/httpserver"
	"github.com/Skotchmaster/oss_shop/services/order/internal/models"
	"github.com/Skotchmaster/oss_shop/services/order/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/order/internal/service"
)

func main() {
	if err := godotenv.Load("services/order/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := ordercfg.Load()

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

	orderSvc := &service.OrderService{
		Repo:      &repo.GormRepo{DB: db},
		Users:     userclient.New(cfg.UserURL, cfg.HTTPClientTimeout),
		Inventory: catalogclient.New(cfg.CatalogURL, cfg.HTTPClientTimeout),
		Mailer:    notify.NewMailer(cfg.Config),
		SMS:       notify.SMS{},
		Events:    publisher,
	}

	e := server.NewEcho(logger)
	server.Health(e, map[string]server.Check{"db": pkgdb.Ping(db)})

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: orderSvc},
		JWTSecret:    cfg.JWTAccessSecret,
		AuthClient:   authclient.NewClient(cfg.AuthHTTPURL, cfg.HTTPClientTimeout),
	})

	if err := server.Run(logger, cfg.Addr(), e,
		func() { _ = publisher.Close() },
		func() { pkgdb.Close(db) },
	); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
