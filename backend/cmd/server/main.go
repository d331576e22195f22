package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talent-nest/backend/internal/api"
	"talent-nest/backend/internal/services"
	"talent-nest/backend/pkg/config"
	"talent-nest/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...",
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("cache_backend", cfg.CacheBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Open stores and cache, build services
	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	sm, err := services.NewServiceManager(openCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer sm.StopAll()

	if err := sm.StartAll(ctx); err != nil {
		log.Fatal("Failed to start background workers", zap.Error(err))
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(sm, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info("Shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func newRouter(sm *services.ServiceManager, log *zap.Logger) *gin.Engine {
	checks := make(map[string]api.HealthCheck)
	for name, check := range sm.HealthChecks() {
		checks[name] = check
	}

	h := api.NewHandler(api.Services{
		Users:         sm.Users,
		Connections:   sm.Connect,
		Matching:      sm.Matching,
		Feed:          sm.Feed,
		Notifications: sm.Notifications,
	}, log)
	return api.NewRouter(h, checks)
}
