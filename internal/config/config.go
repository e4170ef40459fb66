package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Backend BackendConfig `mapstructure:"backend" validate:"required"`
	Media   MediaConfig   `mapstructure:"media"   validate:"required"`
	Poll    PollConfig    `mapstructure:"poll"    validate:"required"`
	Data    DataConfig    `mapstructure:"data"    validate:"required"`
	Log     LogConfig     `mapstructure:"log"     validate:"required"`
}

// BackendConfig contains settings for the remote generation backend.
type BackendConfig struct {
	// BaseURL is the root of the backend, e.g. "http://119.45.124.222:8080".
	// The transport client appends the /v1/api paths to it.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds each individual HTTP request, not a task's lifetime.
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// MediaConfig contains settings for resolving relative media paths returned
// by the backend into absolute URLs.
type MediaConfig struct {
	Host string `mapstructure:"host" validate:"required,url"`
}

// PollConfig contains task status polling settings.
type PollConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"required"`
}

// DataConfig contains settings for the local app-data store.
type DataConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
