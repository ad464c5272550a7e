package main

import (
	"context"
	"errors"
	"hiroonarita/practice-planner/internal/api"
	"hiroonarita/practice-planner/internal/config"
	"hiroonarita/practice-planner/internal/logging"
	"hiroonarita/practice-planner/internal/repository"
	"hiroonarita/practice-planner/internal/repository/memory"
	"hiroonarita/practice-planner/internal/repository/mongo"
	"hiroonarita/practice-planner/internal/service"
	"hiroonarita/practice-planner/internal/storage"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Practice Planner API
// @version 1.0
// @description Daily practice plans for youth soccer teams, player reflections and voice clips.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and an access key minted with planctl key mint.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	_, logCloser := logging.Setup(cfg.Log, os.Stdout)
	defer logCloser.Close()

	log.Println("Starting Practice Planner Server...")
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Repositories ---
	var (
		planRepo       repository.PlanRepository
		reflectionRepo repository.ReflectionRepository
		clipRepo       repository.VoiceClipRepository
	)
	switch cfg.Database.Driver {
	case "mongo":
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		log.Println("Ensuring database indexes...")
		go func() { // Run index creation in background
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
		}()

		planRepo = mongo.NewMongoPlanRepository(appDB)
		reflectionRepo = mongo.NewMongoReflectionRepository(appDB)
		clipRepo = mongo.NewMongoVoiceClipRepository(appDB)
	default:
		log.Println("WARN: Using in-memory store; data is lost on restart.")
		db := memory.Open()
		planRepo = memory.NewPlanRepository(db)
		reflectionRepo = memory.NewReflectionRepository(db)
		clipRepo = memory.NewVoiceClipRepository(db)
	}

	// --- Initialize Storage ---
	var clipStorage storage.ClipStorage
	if cfg.S3.Enabled() {
		log.Println("Initializing voice clip storage...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		clipStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("INFO: s3.bucket_name not set, voice clips disabled.")
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	services := api.Services{
		Access:     service.NewAccessService(cfg.JWT.Secret, cfg.JWT.Expiration),
		Catalog:    service.NewCatalogService(cfg.Teams),
		Plans:      service.NewPlanService(planRepo),
		Reflection: service.NewReflectionService(reflectionRepo, planRepo),
		Voice:      service.NewVoiceService(clipRepo, clipStorage),
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, services)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
