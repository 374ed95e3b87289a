// Package config loads service settings from the environment via Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the service settings.
type Config struct {
	AppPort       string `mapstructure:"APP_PORT"`
	DatabaseDSN   string `mapstructure:"DATABASE_DSN"`
	Debug         bool   `mapstructure:"DEBUG"`
	RabbitMQURL   string `mapstructure:"RABBITMQ_URL"`
	RabbitMQQueue string `mapstructure:"RABBITMQ_QUEUE"`
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("DATABASE_DSN", "sqlite:///db.sqlite")
	v.SetDefault("DEBUG", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
}

// Load reads the configuration from environment variables, falling back to defaults.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return Config{}, fmt.Errorf("DATABASE_DSN must not be empty")
	}
	if cfg.AppPort != "" && !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}
	return cfg, nil
}
