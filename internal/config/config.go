package config

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/domshim/internal/logging"
	"github.com/GriffinCanCode/domshim/internal/sandbox"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Sandbox SandboxConfig
	Host    HostConfig
	Logging LogConfig
}

// SandboxConfig holds script runtime configuration.
type SandboxConfig struct {
	Timeout        time.Duration `envconfig:"DOMSHIM_TIMEOUT" default:"5s"`
	MaxCallStack   int           `envconfig:"DOMSHIM_MAX_CALL_STACK" default:"1024"`
	CaptureConsole bool          `envconfig:"DOMSHIM_CAPTURE_CONSOLE" default:"true"`
}

// HostConfig holds HTML host configuration.
type HostConfig struct {
	Sanitize string `envconfig:"DOMSHIM_SANITIZE" default:"none"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"DOMSHIM_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"DOMSHIM_LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Sandbox: SandboxConfig{
			Timeout:        5 * time.Second,
			MaxCallStack:   1024,
			CaptureConsole: true,
		},
		Host: HostConfig{
			Sanitize: "none",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Runtime converts the sandbox section into a sandbox.Config.
func (c SandboxConfig) Runtime() sandbox.Config {
	return sandbox.Config{
		Timeout:          c.Timeout,
		MaxCallStackSize: c.MaxCallStack,
		CaptureConsole:   c.CaptureConsole,
	}
}

// Logger converts the logging section into a logging.Config.
func (c LogConfig) Logger() logging.Config {
	cfg := logging.DefaultConfig()
	if c.Development {
		cfg = logging.DevelopmentConfig()
	}
	cfg.Level = c.Level
	return cfg
}
