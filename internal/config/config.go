// Package config loads runtime settings from the environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

// DefaultSecretKey is only acceptable outside production.
const DefaultSecretKey = "dev-secret-key"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env            string        `mapstructure:"APP_ENV"`
	Port           string        `mapstructure:"PORT"`
	SecretKey      string        `mapstructure:"SECRET_KEY"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	Timezone       string        `mapstructure:"TIMEZONE"`
	SessionStore   string        `mapstructure:"SESSION_STORE"`
	SessionMaxAge  int           `mapstructure:"SESSION_MAX_AGE"`
	FeedCacheTTL   time.Duration `mapstructure:"FEED_CACHE_TTL"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables and an optional config.yml.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("SECRET_KEY", DefaultSecretKey)
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_URL", "instance/alumni.db")
	v.SetDefault("TIMEZONE", "Asia/Kolkata")
	v.SetDefault("SESSION_STORE", "gorm")
	v.SetDefault("SESSION_MAX_AGE", 7*24*3600)
	v.SetDefault("FEED_CACHE_TTL", "30s")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values Load could not check by type alone.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}

	switch c.DatabaseDriver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	switch c.SessionStore {
	case "gorm", "cookie":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.SessionMaxAge <= 0 {
		return errors.New("SESSION_MAX_AGE must be positive")
	}
	if c.FeedCacheTTL < 0 {
		return errors.New("FEED_CACHE_TTL must not be negative")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.IsProduction() {
		if c.SecretKey == DefaultSecretKey {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Location is the zone every creation timestamp is recorded in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
