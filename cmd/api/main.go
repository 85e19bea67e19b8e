package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chefmate/backend/config"
	"github.com/chefmate/backend/internal/api"
	"github.com/chefmate/backend/internal/database"
	"github.com/chefmate/backend/internal/server"
	"github.com/chefmate/backend/internal/service"
)

func main() {
	// Load environment variables from .env file if present.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	llmService, err := service.NewLLMService()
	if err != nil {
		log.Fatalf("Failed to create LLM service: %v", err)
	}

	recipeService, err := service.NewRecipeService()
	if err != nil {
		log.Fatalf("Failed to create recipe service: %v", err)
	}

	// Live sessions prefer Redis; fall back to in-memory for local runs.
	var store service.SessionStore
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Warning: Redis unavailable, using in-memory sessions: %v", err)
		store = service.NewMemorySessionStore()
	} else {
		store = service.NewRedisSessionStore(redisClient)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to open archive database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}
	var archiveService *service.ArchiveService
	if s3Config != nil {
		archiveService = service.NewArchiveService(s3Config)
	}

	chatService := service.NewChatService(llmService, recipeService, store, cfg.ResultLimit)
	authService := service.NewAuthService(cfg.JWTSecret)
	historyService := service.NewHistoryService(db)

	chatHandler := api.NewChatHandler(chatService, store, authService, historyService, archiveService)
	srv := server.New(cfg, chatHandler)

	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
