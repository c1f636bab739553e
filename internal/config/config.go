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
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   PolicyConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	AccessExpiration  string
	RefreshExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// PolicyConfig holds the time-accounting policy toggles that change
// engine semantics. They are read once at startup and passed explicitly
// into the services that need them. Weekend and holiday counting are
// not here: those live on each leave type.
type PolicyConfig struct {
	AllowMultipleCheckIn bool
}

// CronConfig holds background job intervals
type CronConfig struct {
	CarryForwardInterval time.Duration
	StaleSessionInterval time.Duration
	StaleSessionMaxAge   time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine; env vars may come from the runtime directly.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clockwise"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
	}

	config.Policy = PolicyConfig{
		AllowMultipleCheckIn: getEnvBool("POLICY_ALLOW_MULTIPLE_CHECKIN", false),
	}

	carryForwardInterval, err := time.ParseDuration(getEnv("CRON_CARRY_FORWARD_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_CARRY_FORWARD_INTERVAL: %w", err)
	}
	staleInterval, err := time.ParseDuration(getEnv("CRON_STALE_SESSION_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_STALE_SESSION_INTERVAL: %w", err)
	}
	staleMaxAge, err := time.ParseDuration(getEnv("CRON_STALE_SESSION_MAX_AGE", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_STALE_SESSION_MAX_AGE: %w", err)
	}
	config.Cron = CronConfig{
		CarryForwardInterval: carryForwardInterval,
		StaleSessionInterval: staleInterval,
		StaleSessionMaxAge:   staleMaxAge,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	return value == "true" || value == "1" || value == "yes"
}
