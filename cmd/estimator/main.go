package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/terra-money/alliance-estimator/internal/config"
	"github.com/terra-money/alliance-estimator/internal/datafetcher"
	"github.com/terra-money/alliance-estimator/internal/estimator"
	"github.com/terra-money/alliance-estimator/internal/logger"
	"github.com/terra-money/alliance-estimator/internal/registry"
	"github.com/terra-money/alliance-estimator/internal/state"
	"github.com/terra-money/alliance-estimator/internal/web"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point for the alliance estimator API.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Alliance Estimator Starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := registry.New()
	reg.UpdateNativeLabels(config.DefaultNativeColumnName, config.NativeDisplayDenom)

	engine, err := estimator.NewEngine(config.EstimateCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create estimate engine")
	}

	webCfg := web.Config{
		Port:      config.WebPort,
		PublicURL: config.PublicURL,
		Registry:  reg,
		Engine:    engine,
	}

	// --- 2. Optional input set storage ---
	dbCfg := state.DBConfigFromEnv()
	if dbCfg.Enabled() {
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
		webCfg.Store = state.Store{}
		webCfg.StoreHealth = state.TestDBConnection
	} else {
		log.Warn().Msg("DB_HOST not set, saved input sets are disabled")
	}

	// --- 3. Optional chain seeding of native inputs ---
	if config.NodeGRPC != "" {
		grpcClient, err := dialNode(config.NodeGRPC)
		if err != nil {
			log.Fatal().Err(err).Msg("gRPC connection error")
		}
		defer grpcClient.Close()
		log.Info().Str("endpoint", config.NodeGRPC).Msg("gRPC connected")

		refresher := datafetcher.NewRefresher(datafetcher.NewQueryClients(grpcClient), reg, config.NativeDenom, config.NativePrecision)
		webCfg.Refresher = refresher

		if config.ChainRefreshInterval > 0 {
			go refresher.RunLoop(ctx, config.ChainRefreshInterval)
		} else if _, err := refresher.Refresh(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial native chain refresh failed, inputs must be entered manually")
		}
	}

	// --- 4. Start Web Server ---
	webServer := web.NewWebServer(webCfg)
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", config.WebPort).Str("url", config.PublicURL).Msg("Starting estimator API")
		serverErr <- webServer.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("Web server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Web server shutdown failed")
	}
	log.Info().Msg("Alliance Estimator stopped")
}

// dialNode opens the gRPC connection, using TLS for :443 endpoints.
func dialNode(endpoint string) (*grpc.ClientConn, error) {
	var creds grpc.DialOption
	if strings.Contains(endpoint, ":443") {
		creds = grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{}))
	} else {
		creds = grpc.WithTransportCredentials(insecure.NewCredentials())
	}
	return grpc.NewClient(endpoint, creds)
}
