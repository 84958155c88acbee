package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	pkgdb "github.com/Skotchmaster/oss_shop/pkg/db"
	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/server"

	paymentcfg "github.com/Skotchmaster/oss_shop/services/payment/internal/config"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/httpserver"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/models"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/payment/internal/service"
)

func main() {
	if err := godotenv.Load("services/payment/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := paymentcfg.Load()

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

	paymentSvc := &service.PaymentService{
		Repo:   &repo.GormRepo{DB: db},
		Events: publisher,
	}

	e := server.NewEcho(logger)
	server.Health(e, map[string]server.Check{"db": pkgdb.Ping(db)})

	httpserver.Register(e, &httpserver.Deps{
		PaymentHandler: &httpserver.PaymentHTTP{Svc: paymentSvc},
	})

	if err := server.Run(logger, cfg.Addr(), e,
		func() { _ = publisher.Close() },
		func() { pkgdb.Close(db) },
	); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
