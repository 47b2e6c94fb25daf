package main

import (
	"alcyxob/trainer-planner/internal/api"
	"alcyxob/trainer-planner/internal/catalog"
	"alcyxob/trainer-planner/internal/config"
	"alcyxob/trainer-planner/internal/generator"
	"alcyxob/trainer-planner/internal/logger"
	"alcyxob/trainer-planner/internal/proposal"
	"alcyxob/trainer-planner/internal/repository/backend"
	"alcyxob/trainer-planner/internal/service"
	"alcyxob/trainer-planner/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Trainer Planner API
// @version 1.0
// @description API for trainers to manage clients, exercises and structured workout plans.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider's JWT.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("Starting Trainer Planner server", "driver", cfg.Database.Driver, "address", cfg.Server.Address)

	ctx := context.Background()

	// --- Database Connection ---
	store, closeStore, err := backend.Open(ctx, cfg.Database, appLog)
	if err != nil {
		appLog.Fatal("Could not open store", "error", err)
	}
	defer closeStore()

	// --- Global Catalog ---
	if cfg.Seed.OnStartup {
		entries, err := catalog.Global()
		if err != nil {
			appLog.Fatal("Could not load global exercise catalog", "error", err)
		}
		seedCtx, cancel := context.WithTimeout(ctx, time.Minute)
		if _, err := service.SeedGlobalExercises(seedCtx, store.Exercises, entries, appLog); err != nil {
			appLog.Error("Global exercise seeding failed", "error", err)
		}
		cancel()
	}

	// --- Initialize Storage ---
	fileStorage := storage.NewDisabled()
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3, appLog)
		if err != nil {
			appLog.Fatal("Failed to initialize S3 storage", "error", err)
		}
	} else {
		appLog.Warn("Object storage disabled; exercise media endpoints will return 503")
	}

	// --- Initialize Generator ---
	var gen service.Generator
	if cfg.Generator.Enabled() {
		client, err := generator.New(cfg.Generator, appLog)
		if err != nil {
			appLog.Fatal("Failed to initialize workout generator", "error", err)
		}
		gen = client
	} else {
		appLog.Warn("Workout generator disabled; /workouts/generate will return 503")
	}

	// --- Initialize Services ---
	authService, err := service.NewAuthService(store.Trainers, cfg.Auth, appLog)
	if err != nil {
		appLog.Fatal("Failed to initialize auth", "error", err)
	}
	resolver := service.NewResolver(store)
	workoutService := service.NewWorkoutService(store, resolver, appLog)
	services := api.Services{
		Auth:       authService,
		Exercises:  service.NewExerciseService(store, resolver, fileStorage, appLog),
		Clients:    service.NewClientService(store, resolver, appLog),
		Workouts:   workoutService,
		Generation: service.NewGenerationService(resolver, workoutService, gen, proposal.LimitsFromConfig(cfg.Safety), cfg.Generator.MaxRetries, appLog),
	}

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(appLog), api.CORS(cfg.Server.CORSOrigins))
	api.SetupRoutes(router, services, appLog)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Generator.Timeout*time.Duration(cfg.Generator.MaxRetries+1) + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("ListenAndServe error", "error", err)
		}
	}()
	appLog.Info("Server listening", "address", cfg.Server.Address)

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		appLog.Error("Server forced to shutdown", "error", err)
	}
	appLog.Info("Server exiting.")
}
