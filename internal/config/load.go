package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "NOTES"

// Default values
const (
	DefaultPort                 = 3000
	DefaultLogLevel             = "info"
	DefaultMongoDatabase        = "notes"
	DefaultTokenLifetimeMinutes = 60
	DefaultBcryptCost           = 10
)

// ErrInvalidConfig is wrapped by every validation failure returned from Load.
var ErrInvalidConfig = errors.New("config validation failed")

// keys lists every configuration key so each one can be bound to its
// environment variable.
var keys = []string{
	"server.port",
	"server.log_level",
	"store.identity_backend",
	"store.document_backend",
	"database.url",
	"mongo.uri",
	"mongo.database",
	"auth.token_secret",
	"auth.token_lifetime_minutes",
	"auth.bcrypt_cost",
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file. The port is also read from PORT when NOTES_SERVER_PORT
// is unset.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)
	v.SetDefault("store.identity_backend", BackendMemory)
	v.SetDefault("store.document_backend", BackendMemory)
	v.SetDefault("mongo.database", DefaultMongoDatabase)
	v.SetDefault("auth.token_lifetime_minutes", DefaultTokenLifetimeMinutes)
	v.SetDefault("auth.bcrypt_cost", DefaultBcryptCost)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	if err := v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("failed to bind server.port: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and the backend-specific requirements.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.UsesPostgres() && c.Database.URL == "" {
		return fmt.Errorf("%w: database.url is required for the postgres backend", ErrInvalidConfig)
	}
	if c.Store.DocumentBackend == BackendMongo && c.Mongo.URI == "" {
		return fmt.Errorf("%w: mongo.uri is required for the mongo backend", ErrInvalidConfig)
	}

	return nil
}
