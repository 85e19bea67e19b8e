package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and test run fine on defaults; production must be
// explicit about its secrets and storage.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.JWTSecret == "" {
		if IsProduction() {
			errors = append(errors, "JWT_SECRET (or jwt_secret secret) is required")
		} else {
			// Development falls back to an obviously non-secret value.
			cfg.JWTSecret = "dev-secret"
		}
	}

	switch cfg.DBDriver {
	case "sqlite", "":
	case "postgres":
		if cfg.DBHost == "" {
			errors = append(errors, "DB_HOST is required when DB_DRIVER=postgres")
		}
		if cfg.DBUser == "" {
			errors = append(errors, "DB_USER (or db_user secret) is required when DB_DRIVER=postgres")
		}
		if cfg.DBPassword == "" {
			errors = append(errors, "DB_PASSWORD (or db_password secret) is required when DB_DRIVER=postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("unsupported DB_DRIVER %q", cfg.DBDriver))
	}

	if cfg.ResultLimit <= 0 {
		errors = append(errors, "RESULT_LIMIT must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}
