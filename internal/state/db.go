// ./internal/state/db.go
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool. It stays nil when no database is configured.
var DB *sql.DB

var ErrStoreUnavailable = errors.New("input set store is not configured")

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// Enabled reports whether enough connection details are present to use a database.
func (cfg DBConfig) Enabled() bool {
	return cfg.Host != ""
}

// DBConfigFromEnv reads DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME and DB_SSLMODE.
// An unset or malformed DB_PORT falls back to 5432.
func DBConfigFromEnv() DBConfig {
	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		port = 5432
	}
	return DBConfig{
		Host:     os.Getenv("DB_HOST"),
		Port:     port,
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	DB = db
	log.Info().Str("host", cfg.Host).Str("database", cfg.DBName).Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
		DB = nil
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
func EnsureSchema() error {
	if DB == nil {
		return ErrStoreUnavailable
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS input_sets (
			input_set_id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			alliance_asset_names TEXT[] NOT NULL DEFAULT '{}',
			snapshot JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_input_sets_created_at ON input_sets(created_at DESC);
	`
	if _, err := DB.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}
	log.Info().Msg("Database schema ensured (input_sets).")
	return nil
}

// ResetSchema drops every estimator table and recreates the schema.
func ResetSchema() error {
	if DB == nil {
		return ErrStoreUnavailable
	}

	if _, err := DB.Exec(`DROP TABLE IF EXISTS input_sets CASCADE;`); err != nil {
		return fmt.Errorf("failed to drop input_sets: %w", err)
	}
	log.Warn().Msg("Dropped input_sets table")

	return EnsureSchema()
}

// TestDBConnection tests if the database connection is healthy
func TestDBConnection() error {
	if DB == nil {
		return ErrStoreUnavailable
	}

	// Use a short timeout context for health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
