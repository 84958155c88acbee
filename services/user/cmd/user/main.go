package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	pkgdb "github.com/Skotchmaster/oss_shop/pkg/db"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/notify"
	"github.com/Skotchmaster/oss_shop/pkg/orderclient"
	"github.com/Skotchmaster/oss_shop/pkg/server"

	usercfg "github.com/Skotchmaster/oss_shop/services/user/internal/config"
	"github.com/Skotchmaster/oss_shop/services/user/internal/httpserver"
	"github.com/Skotchmaster/oss_shop/services/user/internal/models"
	"github.com/Skotchmaster/oss_shop/services/user/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/user/internal/service"
)

func main() {
	if err := godotenv.Load("services/user/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := usercfg.Load()

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

	gormRepo := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
	}
	otpSvc := &service.OTPService{Repo: gormRepo, Mailer: notify.NewMailer(cfg.Config)}
	accountSvc := &service.AccountService{
		Repo:   gormRepo,
		Orders: orderclient.New(cfg.OrderURL, cfg.HTTPClientTimeout),
	}

	e := server.NewEcho(logger)
	server.Health(e, map[string]server.Check{"db": pkgdb.Ping(db)})

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, OTP: otpSvc},
		AccountHandler: &httpserver.AccountHTTP{Svc: accountSvc},
		JWTSecret:      cfg.JWTAccessSecret,
	})

	if err := server.Run(logger, cfg.Addr(), e,
		func() { pkgdb.Close(db) },
	); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
