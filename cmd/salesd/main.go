package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"machine-sales-backend/config"
	"machine-sales-backend/internal/api"
	"machine-sales-backend/internal/auth"
	"machine-sales-backend/internal/db"
	"machine-sales-backend/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Infof("configuration loaded from %s", configPath)

	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("auth.jwt_secret must be configured")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Infof("database initialized (%s)", cfg.Database.Driver)

	appStore := store.NewGormStore(gormDB, logger)
	authSvc := auth.NewService(gormDB, cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := authSvc.Bootstrap(ctx, cfg.Auth.BootstrapAdmin.Username, cfg.Auth.BootstrapAdmin.Password); err != nil {
		logger.Fatalf("failed to bootstrap admin account: %v", err)
	}

	// Initialize router
	router := api.NewRouter(appStore, authSvc, cfg)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Infof("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Info("server gracefully stopped")
}
