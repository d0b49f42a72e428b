package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr            string
	Environment     string
	DatabaseURL     string
	JWTSecret       string
	PreviewAuth     bool
	TablesPath      string
	DefaultCurrency string
	LogLevel        string
	MigrationsDir   string
	RunMigrations   bool
	MaxBodyBytes    int64
	MetricsEnabled  bool
	ShutdownTimeout time.Duration
}

// Load reads the environment, after merging any .env file in the working
// directory. Variables already set in the process win over the file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		Environment:     getEnv("APP_ENV", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		PreviewAuth:     getEnvBool("PREVIEW_REQUIRES_AUTH", false),
		TablesPath:      getEnv("PAYROLL_TABLES", ""),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "PHP"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:   getEnvBool("RUN_MIGRATIONS", true),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
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

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// ArchiveEnabled reports whether approved runs can be persisted.
func (c Config) ArchiveEnabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

func (c Config) Validate() error {
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if !c.ArchiveEnabled() {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
	}
	if c.ArchiveEnabled() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set when the run archive is enabled")
	}
	if c.PreviewAuth && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set when PREVIEW_REQUIRES_AUTH is on")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if len(strings.TrimSpace(c.DefaultCurrency)) != 3 {
		return fmt.Errorf("DEFAULT_CURRENCY must be a three letter code")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
