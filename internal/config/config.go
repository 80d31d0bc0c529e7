package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/logging"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	SessionBackendDB     = "db"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

var ErrMissingSecretKey = errors.New("SECRET_KEY environment variable not set")

type Config struct {
	SecretKey           string        `env:"SECRET_KEY"`
	DebugRaw            string        `env:"DEBUG" env-default:"False"`
	AllowedHostsRaw     string        `env:"ALLOWED_HOSTS" env-default:""`
	DatabaseURL         string        `env:"DATABASE_URL" env-default:"sqlite:///db.sqlite3"`
	ServerPort          string        `env:"SERVER_PORT" env-default:"8080"`
	SessionBackend      string        `env:"SESSION_BACKEND" env-default:"db"`
	SessionTTL          time.Duration `env:"SESSION_TTL" env-default:"336h"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" env-default:"false"`
	RedisURL            string        `env:"REDIS_URL" env-default:""`
	LogLevel            string        `env:"LOG_LEVEL" env-default:"info"`
	LogFile             string        `env:"LOG_FILE" env-default:""`

	// Derived in finish.
	Debug        bool
	AllowedHosts []string
}

// Load reads the .env file (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Logger.Info("⚠️  No .env file found, using system environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}

	// DEBUG is only on when spelled exactly "True".
	c.Debug = c.DebugRaw == "True"
	c.AllowedHosts = splitHosts(c.AllowedHostsRaw)

	switch c.SessionBackend {
	case SessionBackendDB, SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND: unknown backend %q", c.SessionBackend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

func splitHosts(raw string) []string {
	var hosts []string
	for _, h := range strings.Split(raw, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
