package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port       int
	LogLevel   string
	DevMode    bool
	TuningPath string // Optional TOML file overriding scoring constants
	MaxPeers   int    // Upper bound on the peer basket per request
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnvAsInt("PORT", 8080),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		DevMode:    getEnvAsBool("DEV_MODE", false),
		TuningPath: getEnv("TUNING_PATH", ""),
		MaxPeers:   getEnvAsInt("MAX_PEERS", 50),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	if c.MaxPeers <= 0 {
		return fmt.Errorf("MAX_PEERS must be positive, got %d", c.MaxPeers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
