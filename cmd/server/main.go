package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ajharbinger/vetted-api/internal/api"
	"github.com/ajharbinger/vetted-api/internal/catalog"
	"github.com/ajharbinger/vetted-api/internal/logger"
	"github.com/ajharbinger/vetted-api/internal/services"
	"github.com/ajharbinger/vetted-api/pkg/config"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.New()

	appLog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer appLog.Sync()

	if err := cfg.Validate(); err != nil {
		appLog.Fatal("Invalid configuration", err)
	}

	repos, check, err := openStorage(cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to open storage", err, "backend", cfg.StorageBackend)
	}
	defer repos.Close()

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		appLog.Fatal("Failed to load criteria catalog", err, "path", cfg.CatalogPath)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := services.NewServices(repos, cat, cfg, appLog)
	health := api.NewHealthHandler(cfg.StorageBackend, check, appLog)

	router, err := api.NewRouter(svc, cfg, appLog, health)
	if err != nil {
		appLog.Fatal("Failed to setup API routes", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLog.Info("Server starting", "port", cfg.Port, "storage", cfg.StorageBackend, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("Failed to start server", err)
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Graceful shutdown failed", err)
	}
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Load()
	}
	return catalog.LoadFile(path)
}
