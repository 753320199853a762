package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// AI suggestion provider
	GeminiAPIKey string

	// Open Food Facts passthrough
	OpenFoodFactsURL       string
	OpenFoodFactsUserAgent string

	// Nutrition API (OAuth2 client credentials)
	NutritionClientID     string
	NutritionClientSecret string
	NutritionTokenURL     string
	NutritionBaseURL      string

	// S3 photo storage
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment
// variables or Docker secrets, depending on the environment.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI from environment variables.
func loadCIConfig(cfg *Config) {
	loadFromEnv(cfg)
	if pw := os.Getenv("TEST_DB_PASSWORD"); pw != "" {
		cfg.DBPassword = pw
	}
	if pw := os.Getenv("TEST_REDIS_PASSWORD"); pw != "" {
		cfg.RedisPassword = pw
	}
	if u := os.Getenv("TEST_REDIS_URL"); u != "" {
		cfg.RedisURL = u
	}
}

// loadDevConfig loads configuration for development and test from
// environment variables with local defaults.
func loadDevConfig(cfg *Config) {
	loadFromEnv(cfg)

	defaults := map[*string]string{
		&cfg.ServerPort: "8080",
		&cfg.ServerHost: "0.0.0.0",
		&cfg.DBHost:     "localhost",
		&cfg.DBPort:     "5432",
		&cfg.DBUser:     "postgres",
		&cfg.DBPassword: "postgres",
		&cfg.DBName:     "platewise",
		&cfg.DBSSLMode:  "disable",
		&cfg.RedisHost:  "localhost",
		&cfg.RedisPort:  "6379",
	}
	for field, value := range defaults {
		if *field == "" {
			*field = value
		}
	}
}

// loadProdConfig loads configuration for production using Docker
// secrets, falling back to environment variables for non-sensitive
// values.
func loadProdConfig(cfg *Config) error {
	loadFromEnv(cfg)

	secrets := map[*string]string{
		&cfg.DBUser:                "db_user",
		&cfg.DBPassword:            "db_password",
		&cfg.RedisPassword:         "redis_password",
		&cfg.GeminiAPIKey:          "gemini_api_key",
		&cfg.NutritionClientID:     "nutrition_client_id",
		&cfg.NutritionClientSecret: "nutrition_client_secret",
	}
	for field, name := range secrets {
		if v := readSecret(name); v != "" {
			*field = v
		}
	}

	if cfg.DBPassword == "" {
		return fmt.Errorf("db_password secret is required in production")
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	cfg.ServerPort = os.Getenv("SERVER_PORT")
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	if db, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		cfg.RedisDB = db
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.OpenFoodFactsURL = os.Getenv("OPENFOODFACTS_URL")
	cfg.OpenFoodFactsUserAgent = os.Getenv("OPENFOODFACTS_USER_AGENT")

	cfg.NutritionClientID = os.Getenv("NUTRITION_CLIENT_ID")
	cfg.NutritionClientSecret = os.Getenv("NUTRITION_CLIENT_SECRET")
	cfg.NutritionTokenURL = os.Getenv("NUTRITION_TOKEN_URL")
	cfg.NutritionBaseURL = os.Getenv("NUTRITION_BASE_URL")

	cfg.S3Bucket = os.Getenv("S3_BUCKET_NAME")
	cfg.AWSRegion = os.Getenv("AWS_REGION")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
