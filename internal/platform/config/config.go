package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL   string
	RulesDir      string
	Environment   string
	RunMigrations bool
}

func Load() Config {
	return Config{
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RulesDir:      getEnv("RULES_DIR", ""),
		Environment:   getEnv("APP_ENV", "development"),
		RunMigrations: getEnvBool("RUN_MIGRATIONS", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// ValidateForFinalize checks the settings the mutating path needs.
// Preview-only invocations run without a database.
func (c Config) ValidateForFinalize() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required to finalize payroll")
	}
	return nil
}
