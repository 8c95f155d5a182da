// Package config loads server configuration from defaults, an optional
// najdeno.yaml file, and NAJDENO_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the server configuration.
type Config struct {
	Addr       string `mapstructure:"addr"`
	DBPath     string `mapstructure:"db"`
	JWTSecret  string `mapstructure:"jwt_secret"`
	UploadsDir string `mapstructure:"uploads_dir"`
}

// Load reads the configuration. A missing config file is fine; defaults and
// environment variables still apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("najdeno")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("addr", ":4000")
	v.SetDefault("db", "najdeno.sqlite3")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("uploads_dir", "uploads")

	v.SetEnvPrefix("NAJDENO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
