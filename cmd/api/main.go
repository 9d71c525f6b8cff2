package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/amm-quote-engine/internal/amm"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/config"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/history"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/registry"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/server"
	"github.com/aman-zulfiqar/amm-quote-engine/internal/storage"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	// Get the project root directory (where go.mod is)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the pricing API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	// Initialize structured logger with custom formatting
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// load .env BEFORE anything reads os.Getenv
	loadEnv(logger)

	// Load and validate configuration from environment variables
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown (Ctrl+C, SIGTERM)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Initialize Redis client backing the pool registry
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0, // Use default database for main application
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}

	// Pool registry: pools, LP supplies and the contract config record
	poolStore, err := registry.NewStoreWithLimits(rclient, cfg.DefaultPageLimit, cfg.MaxPageLimit)
	if err != nil {
		logger.WithError(err).Fatal("failed to create pool registry")
	}

	// Quote history sink (optional, only when ClickHouse is configured)
	var quoteStore storage.QuoteStore
	if cfg.ClickHouseAddr != "" {
		ch, err := history.NewClickHouseStore(ctx, history.Options{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		})
		if err != nil {
			logger.WithError(err).Warn("failed to connect quote history store")
		} else {
			quoteStore = ch
			defer func() {
				_ = ch.Close() // Flush history connection on shutdown
			}()
		}
	}

	// Pricing engine with the configured solver iteration cap
	simulator := amm.NewSimulatorWithSolver(amm.NewtonSolver{MaxIterations: cfg.SolverMaxIterations})

	// Create handlers with all dependencies injected
	h := &server.Handlers{
		Pools:     poolStore,  // Redis-backed pool registry
		Supply:    poolStore,  // LP supply lookup lives in the same store
		ConfigSrc: poolStore,  // Contract config record
		Quotes:    quoteStore, // Optional ClickHouse quote history
		Sim:       simulator,  // Pricing engine
		DevMode:   cfg.DevMode,
		Logger:    logger,
	}

	// Create HTTP server with configuration and handlers
	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:    cfg.APIAddr, // Server bind address (e.g., ":8090")
			DevMode: cfg.DevMode, // Development mode flag
			APIKey:  cfg.APIKey,  // Optional API key for authentication
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	// Setup graceful shutdown in a separate goroutine
	go func() {
		<-sigCh // Wait for shutdown signal
		logger.Info("shutting down")
		cancel()                               // Cancel context to stop ongoing operations
		_ = srv.Shutdown(context.Background()) // Gracefully shutdown HTTP server
	}()

	// Start the HTTP server
	logger.WithField("addr", cfg.APIAddr).Info("pricing api starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("pricing api failed")
	}

	// Wait for server to be fully shut down
	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
