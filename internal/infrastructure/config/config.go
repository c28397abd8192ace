package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "SENTIMENT"

// Config holds all configuration for the service
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// UpstreamConfig holds configuration for the model endpoint
type UpstreamConfig struct {
	URL            string        `mapstructure:"url"`
	Token          string        `mapstructure:"token"`
	TimeoutSeconds float64       `mapstructure:"timeout_seconds"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
}

// Timeout returns the request timeout as a duration
func (c UpstreamConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// BreakerConfig holds circuit breaker configuration
type BreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
}

// CacheConfig holds result cache configuration
type CacheConfig struct {
	Capacity int  `mapstructure:"capacity"`
	Coalesce bool `mapstructure:"coalesce"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// loadDotenv loads path into the environment. A missing file is not an error.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from defaults, an optional .env file and the environment
func Load() (*Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("upstream.url", "https://router.huggingface.co/hf-inference/models/cardiffnlp/twitter-roberta-base-sentiment-latest")
	v.SetDefault("upstream.token", "")
	v.SetDefault("upstream.timeout_seconds", 30.0)
	v.SetDefault("upstream.breaker.enabled", false)
	v.SetDefault("upstream.breaker.failure_threshold", 5)
	v.SetDefault("upstream.breaker.open_timeout", "30s")

	v.SetDefault("cache.capacity", 128)
	v.SetDefault("cache.coalesce", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// bindLegacyEnv keeps the variable names used by earlier deployments working.
// Prefixed variables take precedence because they are bound first.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string]string{
		"upstream.url":             "HUGGINGFACE_API_URL",
		"upstream.token":           "HUGGINGFACE_API_TOKEN",
		"upstream.timeout_seconds": "REQUEST_TIMEOUT",
	}
	for key, name := range legacy {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, name); err != nil {
			return fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", cfg.Server.Port)
	}
	if cfg.Upstream.URL == "" {
		return errors.New("upstream url is required")
	}
	if _, err := url.ParseRequestURI(cfg.Upstream.URL); err != nil {
		return fmt.Errorf("upstream url is invalid: %w", err)
	}
	if cfg.Upstream.TimeoutSeconds <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %v", cfg.Upstream.TimeoutSeconds)
	}
	if cfg.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, got %d", cfg.Cache.Capacity)
	}
	return nil
}
