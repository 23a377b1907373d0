package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"cryptolab/internal/api"
	"cryptolab/internal/audit"
	"cryptolab/internal/auth"
	"cryptolab/internal/config/serviceconfig"
	"cryptolab/internal/config/storageconfig"
	"cryptolab/internal/store"

	"github.com/joho/godotenv"
)

const migrationsPath = "migrations"

func init() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Error("error loading .env file")
		os.Exit(1)
	}
}

func main() {
	storageCfg, err := storageconfig.MustLoadStorageConfig()
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := serviceconfig.MustLoadServiceConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	db, err := store.Open(ctx, storageCfg, migrationsPath)
	if err != nil {
		slog.Error("opening store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	trail := audit.NewKafkaTrail(cfg.Kafka.Broker, cfg.Kafka.AuditTopic)
	defer trail.Close()

	feed, err := audit.NewLiveFeed(cfg.NATS.URL)
	if err != nil {
		slog.Error("connecting to nats", "error", err)
		os.Exit(1)
	}
	defer feed.Close()

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	svc := api.NewService(db, trail, feed, issuer)
	router := api.NewRouter(svc, issuer)

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.Timeout,
		WriteTimeout: cfg.HTTP.Timeout,
	}

	slog.Info("cryptosvc listening", "address", cfg.HTTP.Address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("cannot start http server: %v", err)
	}
}
