package config

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS"`
	TrustProxies   []string `env:"TRUST_PROXIES"`

	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	PostHog  PostHogConfig  `envPrefix:"POSTHOG_"`
	Formula  FormulaConfig  `envPrefix:"FORMULA_"`
	Grading  GradingConfig  `envPrefix:"GRADING_"`
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d is out of range", c.Port)
	}

	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.Formula.Validate(); err != nil {
		return err
	}
	if err := c.Grading.Validate(); err != nil {
		return err
	}

	return nil
}

type ServerConfig struct {
	CertFile *string `env:"CERT_FILE"`
	KeyFile  *string `env:"KEY_FILE"`
}

func (c ServerConfig) Validate() error {
	if (c.CertFile == nil) != (c.KeyFile == nil) {
		return errors.New("SERVER_CERT_FILE and SERVER_KEY_FILE must be set together")
	}

	return nil
}

// GetProto returns the protocol the server listens with.
func (c ServerConfig) GetProto() string {
	if c.CertFile != nil && c.KeyFile != nil {
		return "https"
	}

	return "http"
}

type DatabaseConfig struct {
	Driver string `env:"DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DSN" envDefault:"file:algebra.db?_fk=1"`
}

func (c DatabaseConfig) Validate() error {
	switch c.Driver {
	case "sqlite3", "postgres", "pgx":
	default:
		return fmt.Errorf("DATABASE_DRIVER %q is not supported", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("DATABASE_DSN is required")
	}

	return nil
}

// RedisConfig configures the render cache. An empty host disables it.
type RedisConfig struct {
	Host     string        `env:"HOST"`
	Port     int           `env:"PORT" envDefault:"6379"`
	Username string        `env:"USERNAME"`
	Password string        `env:"PASSWORD"`
	TTL      time.Duration `env:"TTL" envDefault:"1h"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c RedisConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if c.Port == 0 {
		return errors.New("REDIS_PORT is required")
	}
	if c.TTL <= 0 {
		return errors.New("REDIS_TTL must be positive")
	}

	return nil
}

// PostHogConfig configures product analytics. An empty API key disables it.
type PostHogConfig struct {
	APIKey string `env:"API_KEY"`
	Host   string `env:"HOST"`
}

func (c PostHogConfig) Enabled() bool {
	return c.APIKey != ""
}

type FormulaConfig struct {
	ClassName string `env:"CLASS_NAME" envDefault:"algebra-formula"`
	CacheSize int    `env:"CACHE_SIZE" envDefault:"1024"`
}

func (c FormulaConfig) Validate() error {
	if c.ClassName == "" {
		return errors.New("FORMULA_CLASS_NAME is required")
	}
	if c.CacheSize < 0 {
		return errors.New("FORMULA_CACHE_SIZE must not be negative")
	}

	return nil
}

type GradingConfig struct {
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"2"`
}

func (c GradingConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return errors.New("GRADING_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

// ExporterConfig is the configuration of the metrics exporter.
type ExporterConfig struct {
	Port int `env:"PORT" envDefault:"9090"`

	Database DatabaseConfig `envPrefix:"DATABASE_"`
}

func (c ExporterConfig) Validate() error {
	return c.Database.Validate()
}
