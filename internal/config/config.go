package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/Alok5code/project-task-management-api/internal/crypto"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrMissingSecret        = errors.New("secret key is required")
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrUnsupportedDriver    = errors.New("unsupported database driver")
	ErrInvalidTokenTTL      = errors.New("token ttl must be positive")
	ErrMissingDatabaseURL   = errors.New("database url is required")
)

// ConfigError reports a configuration value the process cannot start with.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port            string        `yaml:"port" env:"SERVER_PORT"`
		Mode            string        `yaml:"mode" env:"GIN_MODE"`
		ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver" env:"DATABASE_DRIVER"`
		URL    string `yaml:"url" env:"DATABASE_URL"`
	} `yaml:"database"`
	Auth struct {
		SecretKey       crypto.Secret `yaml:"secret_key" env:"SECRET_KEY"`
		Algorithm       string        `yaml:"algorithm" env:"ALGORITHM"`
		TokenTTLMinutes int           `yaml:"token_ttl_minutes" env:"ACCESS_TOKEN_EXPIRE_MINUTES"`
		ClockSkew       time.Duration `yaml:"clock_skew" env:"TOKEN_CLOCK_SKEW"`
	} `yaml:"auth"`
	Password struct {
		MemoryKiB     uint32 `yaml:"memory_kib" env:"PASSWORD_MEMORY_KIB"`
		Iterations    uint32 `yaml:"iterations" env:"PASSWORD_ITERATIONS"`
		Parallelism   uint8  `yaml:"parallelism" env:"PASSWORD_PARALLELISM"`
		SaltLength    uint32 `yaml:"salt_length" env:"PASSWORD_SALT_LENGTH"`
		KeyLength     uint32 `yaml:"key_length" env:"PASSWORD_KEY_LENGTH"`
		MaxConcurrent int    `yaml:"max_concurrent" env:"PASSWORD_MAX_CONCURRENT"`
	} `yaml:"password"`
	Log struct {
		Level       string `yaml:"level" env:"LOG_LEVEL"`
		Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
	} `yaml:"log"`
}

// LoadConfig reads configuration from the specified YAML file, then applies
// environment overrides and defaults. A missing file is not an error so the
// service can be configured from the environment alone.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		if err := decodeFile(configPath, config); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func decodeFile(configPath string, config *Config) error {
	file, err := os.Open(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode config file: %w", err)
	}

	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 5 * time.Second
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}

	if c.Auth.Algorithm == "" {
		c.Auth.Algorithm = "HS256"
	}
	if c.Auth.TokenTTLMinutes == 0 {
		c.Auth.TokenTTLMinutes = 30
	}

	// argon2id defaults follow the RFC 9106 second recommended option.
	if c.Password.MemoryKiB == 0 {
		c.Password.MemoryKiB = 64 * 1024
	}
	if c.Password.Iterations == 0 {
		c.Password.Iterations = 3
	}
	if c.Password.Parallelism == 0 {
		c.Password.Parallelism = 2
	}
	if c.Password.SaltLength == 0 {
		c.Password.SaltLength = 16
	}
	if c.Password.KeyLength == 0 {
		c.Password.KeyLength = 32
	}
	if c.Password.MaxConcurrent == 0 {
		c.Password.MaxConcurrent = runtime.NumCPU()
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects configurations the process must not start with.
func (c *Config) Validate() error {
	if c.Auth.SecretKey.IsZero() {
		return &ConfigError{Field: "auth.secret_key", Err: ErrMissingSecret}
	}

	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return &ConfigError{Field: "auth.algorithm", Err: fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, c.Auth.Algorithm)}
	}

	if c.Auth.TokenTTLMinutes <= 0 {
		return &ConfigError{Field: "auth.token_ttl_minutes", Err: ErrInvalidTokenTTL}
	}

	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return &ConfigError{Field: "database.driver", Err: fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Database.Driver)}
	}

	if c.Database.URL == "" {
		return &ConfigError{Field: "database.url", Err: ErrMissingDatabaseURL}
	}

	return nil
}

// TokenTTL is the lifetime of issued access tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}
