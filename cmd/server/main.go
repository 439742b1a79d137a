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

	"github.com/ikkim/freshcart-backend/config"
	"github.com/ikkim/freshcart-backend/internal/app/controller"
	"github.com/ikkim/freshcart-backend/internal/app/repository"
	"github.com/ikkim/freshcart-backend/internal/app/service"
	"github.com/ikkim/freshcart-backend/internal/router"
	"github.com/ikkim/freshcart-backend/internal/scheduler"
	"github.com/ikkim/freshcart-backend/internal/storage"
	"github.com/ikkim/freshcart-backend/pkg/cartmirror"
	"github.com/ikkim/freshcart-backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting FreshCart Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"store":       cfg.Store.Driver,
	})

	ctx := context.Background()

	// Open the durable store
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close store", err)
		}
	}()

	// Remote cart mirror
	mirror, err := cartmirror.New(cfg.Mirror.URL, cfg.Mirror.Timeout, cfg.Mirror.QueueSize)
	if err != nil {
		logger.Fatal("Failed to configure cart mirror", err)
	}
	defer mirror.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(store)
	cartRepo := repository.NewCartRepository(store)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, cfg.Store.WriteTimeout)
	cartService := service.NewCartService(cartRepo, catalogService, mirror, cfg.Store.WriteTimeout)

	catalogService.Load(ctx)
	cartService.Load(ctx)

	// Periodic re-mirror
	mirrorScheduler := scheduler.NewMirrorScheduler(cfg.Mirror.Schedule, cartService)
	if err := mirrorScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cart mirror scheduler", err)
	}
	defer mirrorScheduler.Stop()

	// Initialize controllers
	productController := controller.NewProductController(catalogService, cartService)
	cartController := controller.NewCartController(cartService)

	// Setup router
	r := router.NewRouter(productController, cartController, cfg)
	engine := r.Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
