package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional config
// file. Environment variables take precedence over values from the file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional storyvideo.yaml in the working directory.
	v.SetConfigName("storyvideo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables with the STORYVIDEO_ prefix, e.g.
	// STORYVIDEO_BACKEND_BASE_URL overrides backend.base_url.
	v.SetEnvPrefix("STORYVIDEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://119.45.124.222:8080")
	v.SetDefault("backend.timeout", 15*time.Second)
	v.SetDefault("media.host", "http://119.45.124.222:8080")
	v.SetDefault("poll.interval", time.Second)
	v.SetDefault("data.dir", "data")
	v.SetDefault("log.level", "info")
}
