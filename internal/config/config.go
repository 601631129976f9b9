// Package config loads and validates the pageforge service configuration.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default service configuration values.
const (
	defaultServiceName    = "pageforge"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8090
	defaultLogLevel       = "info"
)

// Default database configuration values.
const (
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "pageforge"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultDBConnLifetimeH = 1
)

// Default generator and fetcher values.
const (
	defaultGeneratorModel   = "claude-sonnet-4-20250514"
	defaultGeneratorTimeout = 120 * time.Second
	defaultFetchTimeout     = 15 * time.Second
)

// Config holds the application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Generator GeneratorConfig `yaml:"generator"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServiceConfig holds service identity and runtime settings.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"PAGEFORGE_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"      yaml:"debug"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host                  string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port                  int           `env:"POSTGRES_PORT"     yaml:"port"`
	User                  string        `env:"POSTGRES_USER"     yaml:"user"`
	Password              string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database              string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode               string        `yaml:"sslmode"`
	MaxConnections        int           `yaml:"max_connections"`
	MaxIdleConns          int           `yaml:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// AuthConfig holds authentication settings for protected read routes.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// GeneratorConfig holds content generator (Anthropic) settings.
type GeneratorConfig struct {
	APIKey  string        `env:"ANTHROPIC_API_KEY" yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// FetcherConfig holds web fetcher settings for the research and brand steps.
type FetcherConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// Load loads configuration from a YAML file, applies defaults, then env overrides.
func Load(path string) (*Config, error) {
	cfg, loadErr := load(path)
	if loadErr != nil {
		return nil, loadErr
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. A missing generator API
// key is rejected here so it never surfaces mid-pipeline.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("service.port %d out of range", c.Service.Port)
	}

	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}

	if c.Database.Database == "" {
		return errors.New("database.database is required")
	}

	if c.Generator.APIKey == "" {
		return errors.New("generator.api_key is required (set ANTHROPIC_API_KEY)")
	}

	return nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setGeneratorDefaults(&cfg.Generator)
	setFetcherDefaults(&cfg.Fetcher)

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}

	if s.Version == "" {
		s.Version = defaultServiceVersion
	}

	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}

	if d.Port == 0 {
		d.Port = defaultDBPort
	}

	if d.User == "" {
		d.User = defaultDBUser
	}

	if d.Database == "" {
		d.Database = defaultDBName
	}

	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}

	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}

	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}

	if d.ConnectionMaxLifetime == 0 {
		d.ConnectionMaxLifetime = defaultDBConnLifetimeH * time.Hour
	}
}

func setGeneratorDefaults(g *GeneratorConfig) {
	if g.Model == "" {
		g.Model = defaultGeneratorModel
	}

	if g.Timeout == 0 {
		g.Timeout = defaultGeneratorTimeout
	}
}

func setFetcherDefaults(f *FetcherConfig) {
	if f.Timeout == 0 {
		f.Timeout = defaultFetchTimeout
	}

	if f.UserAgent == "" {
		f.UserAgent = "Mozilla/5.0 (compatible; PageForgeBot/1.0; +https://unicornmarketers.com)"
	}
}
