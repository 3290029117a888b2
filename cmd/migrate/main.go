package main

import (
	"os"

	"github.com/Ozeirr/ai-chatbot-platform/internal/config"
	"github.com/Ozeirr/ai-chatbot-platform/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	sourceURL := "file://migrations"
	if v := os.Getenv("MIGRATIONS_PATH"); v != "" {
		sourceURL = "file://" + v
	}

	log.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Msg("Applying database migrations")

	if err := postgres.RunMigrations(cfg.Database.DSN(), sourceURL); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
