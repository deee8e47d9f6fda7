package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trailhead-app/trailhead/internal/ai"
	"github.com/trailhead-app/trailhead/internal/database"
	"github.com/trailhead-app/trailhead/internal/logging"
	"github.com/trailhead-app/trailhead/internal/server"
)

func main() {
	port := os.Getenv("TRAILHEAD_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("TRAILHEAD_DB_PATH")
	if dbPath == "" {
		dbPath = "trailhead.db"
	}

	logger := logging.Setup(os.Getenv("TRAILHEAD_LOG_LEVEL"), os.Getenv("TRAILHEAD_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	aiClient := ai.NewClient(ai.Config{
		BaseURL: os.Getenv("TRAILHEAD_AI_BASE_URL"),
		APIKey:  os.Getenv("TRAILHEAD_AI_API_KEY"),
		Model:   os.Getenv("TRAILHEAD_AI_MODEL"),
	}, logger.With("component", "ai"))
	if !aiClient.Configured() {
		logger.Warn("TRAILHEAD_AI_API_KEY not set; generation endpoints will fail")
	}

	srv := server.New(db, aiClient, logger)

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	srv.RateLimiter().StartCleanup(cleanupCtx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can run long
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Trailhead running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
