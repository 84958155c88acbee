package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/oss_shop/pkg/authclient"
	pkgdb "github.com/Skotchmaster/oss_shop/pkg/db"
	"github.com/Skotchmaster/oss_shop/pkg/events"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
	"github.com/Skotchmaster/oss_shop/pkg/server"

	catalogcfg "github.com/Skotchmaster/oss_shop/services/catalog/internal/config"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/httpserver"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/search"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/oss_shop/services/catalog/internal/storage"
)

func main() {
	if err := godotenv.Load("services/catalog/.env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := catalogcfg.Load()

	logger := logging.Setup(cfg.ServiceName, cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, pkgdb.Options{Driver: cfg.DBDriver, SQLDriver: cfg.DBSQLDriver, DSN: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	publisher, err := events.New(cfg.Config)
	if err != nil {
		log.Fatalf("events: %v", err)
	}

	svc := &service.CatalogService{Repo: &repo.GormRepo{DB: db}, Events: publisher}

	if cfg.ESURL != "" {
		es, err := search.NewElastic(cfg.ESURL, cfg.ESUser, cfg.ESPassword, cfg.ESIndex)
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			logger.Warn("elasticsearch_index_unavailable", "error", err)
		}
		svc.Search = es
	}
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
		svc.Images = store
	}
	cancel()

	e := server.NewEcho(logger)
	server.Health(e, map[string]server.Check{"db": pkgdb.Ping(db)})

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: svc},
		JWTSecret:      cfg.JWTAccessSecret,
		AuthClient:     authclient.NewClient(cfg.AuthHTTPURL, cfg.HTTPClientTimeout),
	})

	if err := server.Run(logger, cfg.Addr(), e,
		func() { _ = publisher.Close() },
		func() { pkgdb.Close(db) },
	); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
