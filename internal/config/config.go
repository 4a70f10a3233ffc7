package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the citizen services application.
type Config struct {
	Environment string
	Debug       bool
	Server      ServerConfig
	Database    DatabaseConfig
	Email       EmailConfig
	Auth        AuthConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	HTTPPort        int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// DatabaseConfig contains PostgreSQL settings.
type DatabaseConfig struct {
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnectionLifetime time.Duration
	ConnectionTimeout  time.Duration
	MigrationPath      string
}

// EmailConfig contains outbound mail settings. Provider selects the
// delivery client: "smtp" or "sendgrid".
type EmailConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SMTP        SMTPConfig
	SendGrid    SendGridConfig
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type SendGridConfig struct {
	APIKey string
}

// AuthConfig contains token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getBoolEnv("DEBUG", false),

		Server: ServerConfig{
			HTTPPort:        getIntEnv("HTTP_PORT", 8080),
			ReadTimeout:     getDurationEnv("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),
			MaxHeaderBytes:  getIntEnv("MAX_HEADER_BYTES", 1048576),
		},

		Database: DatabaseConfig{
			ConnectionString:   getEnv("DATABASE_URL", "postgres://localhost:5432/citizen_services?sslmode=disable"),
			MaxOpenConnections: getIntEnv("DB_MAX_OPEN_CONNECTIONS", 25),
			MaxIdleConnections: getIntEnv("DB_MAX_IDLE_CONNECTIONS", 5),
			ConnectionLifetime: getDurationEnv("DB_CONNECTION_LIFETIME", 1*time.Hour),
			ConnectionTimeout:  getDurationEnv("DB_CONNECTION_TIMEOUT", 30*time.Second),
			MigrationPath:      getEnv("DB_MIGRATION_PATH", "file://migrations"),
		},

		Email: EmailConfig{
			Provider:    getEnv("EMAIL_PROVIDER", "smtp"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "noreply@smartcity.local"),
			FromName:    getEnv("EMAIL_FROM_NAME", "Smart City Administration"),
			SMTP: SMTPConfig{
				Host:     getEnv("SMTP_HOST", "localhost"),
				Port:     getIntEnv("SMTP_PORT", 587),
				Username: getEnv("SMTP_USERNAME", ""),
				Password: getEnv("SMTP_PASSWORD", ""),
			},
			SendGrid: SendGridConfig{
				APIKey: getEnv("SENDGRID_API_KEY", ""),
			},
		},

		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "citizen-services-default-secret-change-in-production"),
			TokenTTL:  getDurationEnv("TOKEN_TTL", 24*time.Hour),
		},
	}

	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
