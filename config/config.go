package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// DatabaseURL is the Postgres DSN. Empty means no remote store is
	// configured and the service runs entirely from the local mirror.
	DatabaseURL string

	// MirrorPath is the local SQLite snapshot file.
	MirrorPath string

	HTTPPort int

	// AdminPassphrase gates the editing endpoints.
	AdminPassphrase string

	// Redis configuration (optional, summary caching)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Summary collaborator configuration
	Summary SummaryConfig
}

// SummaryConfig holds the Gemini summary service configuration
type SummaryConfig struct {
	Enabled bool
	APIKey  string
	Model   string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Load .env file if exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")

	return &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		MirrorPath:  getEnvOrDefault("MIRROR_PATH", "market-weekly.db"),
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),

		AdminPassphrase: getEnvOrDefault("ADMIN_PASSPHRASE", "8888"),

		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),

		Summary: SummaryConfig{
			Enabled: apiKey != "",
			APIKey:  apiKey,
			Model:   getEnvOrDefault("SUMMARY_MODEL", "gemini-2.0-flash"),
		},
	}
}

// getEnvInt gets environment variable as int or returns default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var intValue int
	if _, err := fmt.Sscanf(value, "%d", &intValue); err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
