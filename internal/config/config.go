package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// KeySource selects where the signing keypair is loaded from.
const (
	KeySourceLocal = "local"
	KeySourceAWS   = "aws"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Message      MessageConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token and credential parameters. KeySource picks the
// key provider at deployment time; application code never branches on the
// environment.
type AuthConfig struct {
	Issuer             string
	TokenTTLSeconds    int
	BcryptCost         int
	KeySource          string
	PrivateKeyPath     string
	PublicKeyPath      string
	PrivateKeySecretID string
	PublicKeySecretID  string
	AWSRegion          string
}

// MessageConfig holds the rendered notification message parts.
type MessageConfig struct {
	ActivationText    string
	ActivationBaseURL string
	ResetText         string
	ResetBaseURL      string
}

// NotificationConfig holds external notifier endpoints and the per-email
// cooldown for code requests.
type NotificationConfig struct {
	EmailFrom       string
	WebhookURL      string
	CooldownSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "identity-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Issuer:             getEnv("AUTH_JWT_ISSUER", "identity-service"),
			TokenTTLSeconds:    getEnvAsInt("AUTH_JWT_EXPIRE_SECONDS", 3600),
			BcryptCost:         getEnvAsInt("AUTH_BCRYPT_COST", 12),
			KeySource:          getEnv("AUTH_KEY_SOURCE", KeySourceLocal),
			PrivateKeyPath:     getEnv("AUTH_PRIVATE_KEY_PATH", "keys/private.pem"),
			PublicKeyPath:      getEnv("AUTH_PUBLIC_KEY_PATH", "keys/public.pem"),
			PrivateKeySecretID: os.Getenv("AUTH_PRIVATE_KEY_SECRET_ID"),
			PublicKeySecretID:  os.Getenv("AUTH_PUBLIC_KEY_SECRET_ID"),
			AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		},
		Message: MessageConfig{
			ActivationText:    getEnv("MESSAGE_ACTIVATION_TEXT", "Activate your account:"),
			ActivationBaseURL: getEnv("MESSAGE_ACTIVATION_BASE_URL", "http://localhost:8080/users/staff/activate-code"),
			ResetText:         getEnv("MESSAGE_RESET_TEXT", "Reset your password:"),
			ResetBaseURL:      getEnv("MESSAGE_RESET_BASE_URL", "http://localhost:8080/users/staff/reset-password"),
		},
		Notification: NotificationConfig{
			EmailFrom:       getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL:      getEnv("NOTIFY_WEBHOOK_URL", ""),
			CooldownSeconds: getEnvAsInt("NOTIFY_COOLDOWN_SECONDS", 60),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the configured token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

// Cooldown returns the per-email code request cooldown.
func (n NotificationConfig) Cooldown() time.Duration {
	if n.CooldownSeconds <= 0 {
		return 0
	}
	return time.Duration(n.CooldownSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
