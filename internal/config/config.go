package config

// Backend names accepted in StoreConfig.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Store    StoreConfig    `mapstructure:"store"    validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// StoreConfig selects the identity and document backends.
type StoreConfig struct {
	IdentityBackend string `mapstructure:"identity_backend" validate:"required,oneof=memory postgres"`
	DocumentBackend string `mapstructure:"document_backend" validate:"required,oneof=memory postgres mongo"`
}

// DatabaseConfig contains the Postgres settings. URL is required when either
// backend is postgres.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// MongoConfig contains the MongoDB settings. URI is required when the
// document backend is mongo.
type MongoConfig struct {
	URI      string `mapstructure:"uri"      validate:"omitempty,url"`
	Database string `mapstructure:"database" validate:"required"`
}

// AuthConfig contains the identity backend's credential settings.
type AuthConfig struct {
	TokenSecret          string `mapstructure:"token_secret"           validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,min=4,max=31"`
}

// UsesPostgres reports whether any backend needs a Postgres connection.
func (c *Config) UsesPostgres() bool {
	return c.Store.IdentityBackend == BackendPostgres || c.Store.DocumentBackend == BackendPostgres
}
