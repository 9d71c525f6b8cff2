package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// API settings
	APIAddr string
	APIKey  string
	DevMode bool

	// Redis settings
	RedisAddr string

	// ClickHouse settings (quote history, optional)
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// Pagination bounds for pool listing
	DefaultPageLimit int
	MaxPageLimit     int

	// Stable invariant solver iteration cap
	SolverMaxIterations int

	// Request handling
	RequestTimeout time.Duration
}

func Load() *Config {
	return &Config{
		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "amm"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// Listing
		DefaultPageLimit: getIntEnv("DEFAULT_PAGE_LIMIT", 10),
		MaxPageLimit:     getIntEnv("MAX_PAGE_LIMIT", 100),

		// Solver
		SolverMaxIterations: getIntEnv("SOLVER_MAX_ITERATIONS", 256),

		// Requests
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
	}
}

func (c *Config) Validate() error {
	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR must not be empty")
	}
	if c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must not be empty")
	}
	if c.DefaultPageLimit <= 0 || c.MaxPageLimit <= 0 || c.DefaultPageLimit > c.MaxPageLimit {
		return fmt.Errorf("invalid page limits: default %d, max %d", c.DefaultPageLimit, c.MaxPageLimit)
	}
	if c.SolverMaxIterations <= 0 {
		return fmt.Errorf("SOLVER_MAX_ITERATIONS must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
