package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env           string `mapstructure:"ENV"`
	StoreBackend  string `mapstructure:"STORE_BACKEND"`
	DataDir       string `mapstructure:"DATA_DIR"`
	RedisURL      string `mapstructure:"REDIS_URL"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	RefreshPolicy string `mapstructure:"REFRESH_POLICY"`
	SubmitDelayMS int    `mapstructure:"SUBMIT_DELAY_MS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_BACKEND", "file")
	v.SetDefault("DATA_DIR", ".healthconsult")
	v.SetDefault("REFRESH_POLICY", "cache")
	v.SetDefault("SUBMIT_DELAY_MS", 2000)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("STORE_BACKEND")
	v.BindEnv("DATA_DIR")
	v.BindEnv("REDIS_URL")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("REFRESH_POLICY")
	v.BindEnv("SUBMIT_DELAY_MS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SubmitDelay returns the simulated consultation round-trip time.
func (c *Config) SubmitDelay() time.Duration {
	return time.Duration(c.SubmitDelayMS) * time.Millisecond
}

// Validate checks that the configuration is runnable: a known store backend
// with its connection string present, and a known refresh policy.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "memory", "file":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND is \"redis\"")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is \"postgres\"")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be \"memory\", \"file\", \"redis\", or \"postgres\", got %q", c.StoreBackend)
	}

	if c.StoreBackend == "file" && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required when STORE_BACKEND is \"file\"")
	}

	if c.RefreshPolicy != "cache" && c.RefreshPolicy != "refresh" {
		return fmt.Errorf("REFRESH_POLICY must be \"cache\" or \"refresh\", got %q", c.RefreshPolicy)
	}

	if c.SubmitDelayMS < 0 {
		return fmt.Errorf("SUBMIT_DELAY_MS must not be negative, got %d", c.SubmitDelayMS)
	}

	return nil
}
