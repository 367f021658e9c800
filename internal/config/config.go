package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL  string         `mapstructure:"api_base_url"`
	SessionFile string         `mapstructure:"session_file"`
	HTTPTimeout time.Duration  `mapstructure:"http_timeout"`
	Shipping    ShippingConfig `mapstructure:"shipping"`
	Log         LogConfig      `mapstructure:"log"`
}

type ShippingConfig struct {
	FreeThreshold float64 `mapstructure:"free_threshold"`
	FlatCost      float64 `mapstructure:"flat_cost"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Load reads an optional yaml file and STOREFRONT_* environment overrides.
// An empty path means config comes from defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "http://localhost:8080")
	v.SetDefault("session_file", defaultSessionFile())
	v.SetDefault("http_timeout", time.Duration(0))
	v.SetDefault("shipping.free_threshold", 500.0)
	v.SetDefault("shipping.flat_cost", 50.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url is required")
	}
	if c.Shipping.FreeThreshold < 0 || c.Shipping.FlatCost < 0 {
		return errors.New("shipping values must not be negative")
	}
	return nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".storefront-session.json"
	}
	return filepath.Join(dir, "storefront", "session.json")
}
