package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Credential store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API        APIConfig
	Navigation NavigationConfig
	Credential CredentialConfig
	Mongo      MongoConfig
	Redis      RedisConfig
}

// APIConfig points the gateway at the backend.
type APIConfig struct {
	URL     string        `env:"API_URL,     default=http://localhost:3000/api/v1"`
	Timeout time.Duration `env:"API_TIMEOUT, default=30s"`
}

type NavigationConfig struct {
	LoginPath   string `env:"LOGIN_PATH,   default=/login"`
	LandingPath string `env:"LANDING_PATH, default=/dashboard"`
}

// CredentialConfig selects where the session's token and user are kept.
type CredentialConfig struct {
	Store     string `env:"CREDENTIAL_STORE,     default=file"`
	File      string `env:"CREDENTIAL_FILE,      default=.learnhub/credentials.json"`
	Namespace string `env:"CREDENTIAL_NAMESPACE, default=learnhub"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=learnhub_client"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsDevelopment reports whether human-friendly output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects combinations envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Credential.Store {
	case StoreFile, StoreMemory, StoreRedis, StoreMongo:
	default:
		return fmt.Errorf("config: unknown CREDENTIAL_STORE %q", c.Credential.Store)
	}
	if c.Navigation.LoginPath == c.Navigation.LandingPath {
		return fmt.Errorf("config: LOGIN_PATH and LANDING_PATH must differ")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: API_TIMEOUT must be positive")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
