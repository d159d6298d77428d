package config

import (
	"github.com/rs/zerolog/log"
)

// Endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// NodeGRPC is the gRPC endpoint of the native chain's node. Empty disables chain seeding.
	NodeGRPC string
)

// loadEndpointConfig loads endpoint configuration from environment variables.
// This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading endpoint configuration from environment variables...")

	NodeGRPC = getEnvOrDefault("NODE_GRPC", "")
	if NodeGRPC == "" {
		log.Warn().Msg("NODE_GRPC not set, native inputs will not be seeded from chain")
	}

	log.Debug().
		Str("NodeGRPC", NodeGRPC).
		Msg("Endpoint configuration loaded successfully.")

	return nil
}
