package app

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIBaseURL points at the manager API, e.g. https://api.agropaie.local.
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8090"`
	// APIToken is the bearer credential used when no token store is wired in.
	APIToken string `envconfig:"API_TOKEN"`

	CallTimeout  time.Duration `envconfig:"API_CALL_TIMEOUT" default:"15s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`

	// StubAddr is where --demo serves the in-process manager stub.
	StubAddr string `envconfig:"STUB_ADDR" default:"127.0.0.1:8090"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, errors.New("api base url must be provided")
	}
	if cfg.CallTimeout <= 0 {
		return nil, errors.New("api call timeout must be positive")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the console runs against production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
