package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Backend    BackendConfig    `mapstructure:"backend"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
}

// BackendConfig holds the storefront REST backend configuration
type BackendConfig struct {
	// BaseURL overrides the host/port/path_prefix assembly when set
	BaseURL              string `mapstructure:"base_url"`
	Scheme               string `mapstructure:"scheme"`
	Host                 string `mapstructure:"host"`
	Port                 int    `mapstructure:"port"`
	PathPrefix           string `mapstructure:"path_prefix"`
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
}

// Endpoint returns the base URL every backend path is appended to
func (b BackendConfig) Endpoint() string {
	if b.BaseURL != "" {
		return strings.TrimRight(b.BaseURL, "/")
	}

	scheme := b.Scheme
	if scheme == "" {
		scheme = "http"
	}

	prefix := strings.Trim(b.PathPrefix, "/")
	if prefix != "" {
		prefix = "/" + prefix
	}

	return fmt.Sprintf("%s://%s:%d%s", scheme, b.Host, b.Port, prefix)
}

// StorefrontConfig holds client behaviour settings
type StorefrontConfig struct {
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	Profile        string        `mapstructure:"profile"`
}

// RedisConfig holds Redis connection details for the session store
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// DatabaseConfig holds database configuration for the order history
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// DSN returns a pgx connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path looks for config.yaml in the current directory; a missing
// default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix("storefront")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "")
	v.SetDefault("backend.scheme", "http")
	v.SetDefault("backend.host", "localhost")
	v.SetDefault("backend.port", 8082)
	v.SetDefault("backend.path_prefix", "/api/v1")
	v.SetDefault("backend.timeout", 30)
	v.SetDefault("backend.max_retries", 0)
	v.SetDefault("backend.max_requests_per_second", 20)

	v.SetDefault("storefront.search_debounce", "500ms")
	v.SetDefault("storefront.profile", "default")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront_user")
	v.SetDefault("database.password", "storefront_pass")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "storefront.log")
}
