package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefix of environment overrides, e.g. DREAMLENS_JWT_SECRET_KEY
const EnvPrefix = "DREAMLENS"

// LoadConfig loads the configuration file, an optional .env file and
// environment overrides. configFile may be empty, in which case config.yaml
// is searched in . and ./config and defaults are used when it is absent.
func LoadConfig(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	bindDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// bindDefaults registers every key with viper so AutomaticEnv can override
// keys that are missing from the file.
func bindDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.production_mode", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./database/dreamlens.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis_service.host", "")
	v.SetDefault("redis_service.port", 6379)
	v.SetDefault("redis_service.db", 0)
	v.SetDefault("redis_service.password", "")
	v.SetDefault("redis_service.key_prefix", "dreamlens:generation:")
	v.SetDefault("redis_service.slot_ttl_seconds", 300)

	v.SetDefault("jwt.secret_key", "")
	v.SetDefault("jwt.algorithm", "HS256")
	v.SetDefault("jwt.expire_minutes", 30)

	v.SetDefault("cors.origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("cors.allow_credentials", true)

	v.SetDefault("frontend.url", "http://localhost:5173")

	v.SetDefault("google.client_id", "")
	v.SetDefault("google.client_secret", "")
	v.SetDefault("google.redirect_url", "http://localhost:8000/auth/google/callback")

	v.SetDefault("image.base_url", "https://router.huggingface.co/hf-inference/models")
	v.SetDefault("image.token", "")
	v.SetDefault("image.model", "stabilityai/stable-diffusion-xl-base-1.0")
	v.SetDefault("image.timeout_seconds", 120)
	v.SetDefault("image.max_concurrency", 4)

	v.SetDefault("analysis.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("analysis.api_key", "")
	v.SetDefault("analysis.model", "llama-3.3-70b-versatile")
	v.SetDefault("analysis.timeout_seconds", 30)
	v.SetDefault("analysis.max_concurrency", 4)

	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("log.level", "info")
}

// setDefaults fills values that are invalid when zero
func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.SlotTTLSeconds == 0 {
		cfg.Redis.SlotTTLSeconds = 300
	}
	if cfg.JWT.Algorithm == "" {
		cfg.JWT.Algorithm = "HS256"
	}
	if cfg.JWT.ExpireMinutes == 0 {
		cfg.JWT.ExpireMinutes = 30
	}
	if cfg.CORS.AllowMethods == nil {
		cfg.CORS.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	}
	if cfg.CORS.AllowHeaders == nil {
		cfg.CORS.AllowHeaders = []string{"Authorization", "Content-Type"}
	}
	if cfg.Image.TimeoutSeconds == 0 {
		cfg.Image.TimeoutSeconds = 120
	}
	if cfg.Image.MaxConcurrency == 0 {
		cfg.Image.MaxConcurrency = 4
	}
	if cfg.Analysis.TimeoutSeconds == 0 {
		cfg.Analysis.TimeoutSeconds = 30
	}
	if cfg.Analysis.MaxConcurrency == 0 {
		cfg.Analysis.MaxConcurrency = 4
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// validateConfig validates the loaded configuration
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	if cfg.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key must not be empty")
	}

	switch cfg.Database.Driver {
	case "sqlite":
		// make sure the database directory exists
		dbDir := filepath.Dir(cfg.Database.Path)
		if _, err := os.Stat(dbDir); os.IsNotExist(err) {
			if err := os.MkdirAll(dbDir, 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	if cfg.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second must not be negative")
	}

	return nil
}
