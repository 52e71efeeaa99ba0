package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerHost string
	ServerPort string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (rate limiting; optional)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// LLM provider configuration. Empty key activates mock recipes.
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string

	// Catalog provider configuration. Empty credentials activate
	// fallback pricing.
	CatalogClientID     string
	CatalogClientSecret string
	CatalogAPIBase      string

	// Store used for cart URLs
	StoreName    string
	StoreBaseURL string
}

// LoadConfig builds a Config from environment variables. A local .env file is
// loaded first when present, so development runs do not need exported vars.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v. Relying on system environment variables.", err)
	}

	cfg := &Config{
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "agentic_grocery"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		LLMAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		LLMAPIURL: getEnv("ANTHROPIC_API_URL", "https://api.anthropic.com/v1/messages"),
		LLMModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-sonnet-20241022"),

		CatalogClientID:     os.Getenv("KROGER_CLIENT_ID"),
		CatalogClientSecret: os.Getenv("KROGER_CLIENT_SECRET"),
		CatalogAPIBase:      getEnv("KROGER_API_BASE", "https://api.kroger.com/v1"),

		StoreName:    getEnv("STORE_NAME", "Kroger"),
		StoreBaseURL: getEnv("STORE_BASE_URL", "https://www.kroger.com/cart"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", dbStr, err)
		}
		cfg.RedisDB = db
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
