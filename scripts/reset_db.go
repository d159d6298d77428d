// reset_db drops the saved input sets table and recreates the schema.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/terra-money/alliance-estimator/internal/logger"
	"github.com/terra-money/alliance-estimator/internal/state"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}
	logger.Initialize(os.Getenv("LOG_LEVEL"))

	cfg := state.DBConfigFromEnv()
	if !cfg.Enabled() {
		log.Fatal().Msg("DB_HOST environment variable not set.")
	}

	if err := state.InitDB(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database connection")
	}
	defer state.CloseDB()

	if err := state.ResetSchema(); err != nil {
		log.Error().Err(err).Msg("Failed to reset database schema")
		return
	}
	log.Info().Str("database", cfg.DBName).Msg("Input set schema reset")
}
