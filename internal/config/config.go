package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	APIBaseURL string `mapstructure:"API_BASE_URL"`
	Env        string `mapstructure:"ENV"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`
	ListenAddr string `mapstructure:"LISTEN_ADDR"`
	Currency   string `mapstructure:"CURRENCY"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// CORSOrigins is a comma separated list of allowed browser origins.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// Storage backing the cart and the session.
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	StoragePath   string `mapstructure:"STORAGE_PATH"`
	OwnerID       string `mapstructure:"OWNER_ID"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

var keys = []string{
	"API_BASE_URL", "ENV", "LOG_LEVEL", "LISTEN_ADDR", "CURRENCY", "CORS_ORIGINS", "MAX_REQUESTS_PER_MIN",
	"STORAGE_DRIVER", "STORAGE_PATH", "OWNER_ID", "DATABASE_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
}

// Load reads config.yaml from the given directories (default "." and "./config"),
// then environment variables, then defaults.
func Load(paths ...string) (Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.AutomaticEnv()
	// Unmarshal only sees env vars for keys viper already knows about.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("v.BindEnv[%s]: %w", key, err)
		}
	}

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LISTEN_ADDR", ":3000")
	v.SetDefault("CURRENCY", "USD")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("STORAGE_DRIVER", "file")
	v.SetDefault("STORAGE_PATH", ".storefront/storage.json")
	v.SetDefault("OWNER_ID", "default")
	v.SetDefault("DATABASE_URL", "postgres://localhost:5432/storefront?sslmode=disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("v.ReadInConfig: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("v.Unmarshal: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
