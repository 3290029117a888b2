package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ozeirr/ai-chatbot-platform/internal/api"
	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
	"github.com/Ozeirr/ai-chatbot-platform/internal/embedding"
	"github.com/Ozeirr/ai-chatbot-platform/internal/queue"
	"github.com/Ozeirr/ai-chatbot-platform/internal/repository/postgres"
	"github.com/Ozeirr/ai-chatbot-platform/internal/repository/redis"
	"github.com/Ozeirr/ai-chatbot-platform/internal/vector/qdrant"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("Starting chatbot platform API server")

	// Initialize database
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Apply pending migrations
	if err := postgres.RunMigrations(cfg.Database.DSN(), "file://migrations"); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize the vector store. The embedder may be swapped at startup to
	// match the dimension of an existing collection.
	embedder, err := embedding.ForDimension(cfg, cfg.Embedding.Dimension)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to select embedding backend")
	}

	store, err := qdrant.NewStore(context.Background(), cfg, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to vector store")
	}
	defer store.Close()

	// Background task queue for ingestion and crawling
	tasks := queue.New(redisClient, cfg.Queue.Key, cfg.Queue.Workers, cfg.Queue.MaxRetries)

	// Initialize router. Task handlers are registered during wiring.
	router := api.NewRouter(cfg, db, redisClient, store, tasks)

	// Start queue workers after handlers are bound
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	workers := tasks.Start(workerCtx)

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Drain queue workers before closing connections
	stopWorkers()
	workers.Wait()

	log.Info().Msg("Server stopped")
}
