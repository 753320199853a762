package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable for the
// current environment. Database settings are always required; the AI
// provider, nutrition API and S3 storage are optional and the features
// degrade when unset.
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := map[string]string{
		"server port": cfg.ServerPort,
		"server host": cfg.ServerHost,
		"db host":     cfg.DBHost,
		"db port":     cfg.DBPort,
		"db user":     cfg.DBUser,
		"db name":     cfg.DBName,
	}
	for field, value := range required {
		if value == "" {
			errors = append(errors, fmt.Sprintf("%s is not set", field))
		}
	}

	if cfg.DBPassword == "" {
		errors = append(errors, "db password is not set")
	}

	if IsProduction() {
		if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
			errors = append(errors, "redis configuration is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "db ssl must not be disabled in production")
		}
	}

	if (cfg.NutritionClientID == "") != (cfg.NutritionClientSecret == "") {
		errors = append(errors, "nutrition client id and secret must be set together")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}
