package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/megalink-ti/fatura-tracker/internal/config"
	"github.com/megalink-ti/fatura-tracker/internal/database"
	"github.com/megalink-ti/fatura-tracker/internal/handlers"
	"github.com/megalink-ti/fatura-tracker/internal/metrics"
	"github.com/megalink-ti/fatura-tracker/internal/registry"
	"github.com/megalink-ti/fatura-tracker/internal/stats"
	"github.com/megalink-ti/fatura-tracker/internal/storage"
	"github.com/megalink-ti/fatura-tracker/internal/tracking"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	if cfg.LogJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	metrics.Register()

	db, err := database.NewPostgresDB(logger, database.PostgresConfig{
		User:       cfg.PostgresUser,
		Password:   cfg.PostgresPassword,
		Host:       cfg.PostgresHost,
		Port:       cfg.PostgresPort,
		DBName:     cfg.PostgresDatabase,
		SSLMode:    cfg.PostgresSSLMode,
		MaxRetries: cfg.DBConnectRetries,
		RetryDelay: cfg.DBConnectBackoff,
	})
	if err != nil {
		logger.WithError(err).Fatal("Database setup failed")
	}

	var images storage.Storage
	switch cfg.StorageBackend {
	case "s3":
		images = storage.NewS3Storage(cfg)
	default:
		images = storage.NewLocalStorage(cfg.ImageDir)
	}

	reg := registry.New(cfg.Companies)
	tracker := tracking.New(logger, db)
	statsSvc := stats.New(db)

	handler := handlers.NewTrackerHandler(logger, cfg, reg, tracker, statsSvc, images, db)

	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RateLimitMiddleware(cfg))
	handlers.RegisterRoutes(r, handler)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("Server shutdown error")
		}
	}()

	logger.WithField("addr", server.Addr).Info("Starting server")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Fatal("Server failed")
	}
}
