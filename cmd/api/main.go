package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pageza/foodgram-v2/backend/config"
	"github.com/pageza/foodgram-v2/backend/internal/database"
	"github.com/pageza/foodgram-v2/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis backs token revocation; the API still serves without it.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, token revocation disabled: %v", err)
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}

	srv := server.New(cfg, db, redisClient, s3Config)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s:%s...", cfg.ServerHost, cfg.ServerPort)
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
