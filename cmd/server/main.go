package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/mwhitfield/fpl-projector/internal/api"
	"github.com/mwhitfield/fpl-projector/internal/api/handlers"
	"github.com/mwhitfield/fpl-projector/internal/api/middleware"
	"github.com/mwhitfield/fpl-projector/internal/engine"
	"github.com/mwhitfield/fpl-projector/internal/providers"
	"github.com/mwhitfield/fpl-projector/internal/services"
	"github.com/mwhitfield/fpl-projector/internal/snapshot"
	"github.com/mwhitfield/fpl-projector/internal/transfers"
	"github.com/mwhitfield/fpl-projector/pkg/config"
	"github.com/mwhitfield/fpl-projector/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Core services
	cacheService := services.NewCacheService(redisClient)
	ttlCache := services.NewTTLCache()
	store := snapshot.NewStore()
	loader := snapshot.NewDBLoader(db, logger)

	projector := engine.New(cfg.Model, logger)
	transferEngine := transfers.NewEngine(projector, logger)

	// Snapshot refresher
	refreshInterval, err := time.ParseDuration(cfg.SnapshotRefreshInterval)
	if err != nil {
		logrus.Warnf("Invalid refresh interval, using default 2h: %v", err)
		refreshInterval = 2 * time.Hour
	}
	refresher := services.NewRefresherService(loader, store, ttlCache, cacheService, logger, refreshInterval)

	if cfg.SyncBeforeRefresh {
		client := providers.NewFantasyClient(
			cfg.FantasyAPIBaseURL,
			cfg.ExternalAPITimeout,
			cfg.FantasyAPIRateLimit,
			cfg.CircuitBreakerThreshold,
			logger,
		)
		refresher.WithSyncer(services.NewSyncService(client, db, logger))
	}

	if err := refresher.Start(cfg.SkipInitialRefresh); err != nil {
		logrus.Fatalf("Failed to start snapshot refresher: %v", err)
	}
	defer refresher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health endpoints at root level
	healthHandler := handlers.NewHealthHandler(store)
	router.GET("/health", healthHandler.GetHealth)
	router.GET("/ready", healthHandler.GetReady)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, store, projector, transferEngine, ttlCache, cacheService, refresher, cfg, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
