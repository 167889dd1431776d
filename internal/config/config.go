package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog/log"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is read from the process environment. Keys are the lower-cased
// variable names, e.g. DATABASE_URL -> database_url.
type Config struct {
	Env        string `koanf:"app_env" validate:"required,oneof=development production test"`
	ServerPort string `koanf:"port" validate:"required"`

	DatabaseURL    string `koanf:"database_url" validate:"required"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`

	JWTSecret string        `koanf:"jwt_secret" validate:"required"`
	JWTExpiry time.Duration `koanf:"jwt_expiry" validate:"required"`

	MailProvider string `koanf:"mail_provider" validate:"required,oneof=smtp resend log"`
	MailFrom     string `koanf:"mail_from" validate:"required,email"`
	SMTPHost     string `koanf:"smtp_host" validate:"required_if=MailProvider smtp"`
	SMTPPort     int    `koanf:"smtp_port" validate:"required_if=MailProvider smtp"`
	SMTPUsername string `koanf:"smtp_username"`
	SMTPPassword string `koanf:"smtp_password"`
	ResendAPIKey string `koanf:"resend_api_key" validate:"required_if=MailProvider resend"`

	// RedisAddress enables the asynq email queue when set.
	RedisAddress string `koanf:"redis_address"`

	DigestCron     string `koanf:"digest_cron" validate:"required"`
	DigestTimezone string `koanf:"digest_timezone" validate:"required,timezone"`
	// DigestSkipEmpty stops the digest from going to users with nothing due.
	DigestSkipEmpty bool `koanf:"digest_skip_empty"`

	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	LogLevel  string `koanf:"log_level" validate:"required"`
	LogFormat string `koanf:"log_format" validate:"required,oneof=json console"`
}

func defaults() *Config {
	return &Config{
		Env:            EnvDevelopment,
		ServerPort:     "8000",
		DatabaseURL:    "postgresql://postgres@localhost/groop",
		JWTSecret:      "my-jwt-secret",
		JWTExpiry:      3 * time.Hour,
		MailProvider:   "log",
		MailFrom:       "groopnotify@gmail.com",
		SMTPHost:       "smtp.gmail.com",
		SMTPPort:       587,
		DigestCron:     "0 12 * * Sun",
		DigestTimezone: "America/Los_Angeles",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment variables")
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS; an empty value allows every origin.
func (c *Config) AllowedOrigins() []string {
	if strings.TrimSpace(c.CORSAllowedOrigins) == "" {
		return []string{"*"}
	}
	origins := strings.Split(c.CORSAllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
