package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// MobileClientConfig holds the onboarding client configuration.
type MobileClientConfig struct {
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	// PreferencesPath is the SQLite file holding device preferences. Empty keeps them in memory.
	PreferencesPath string `env:"PREFERENCES_PATH" envDefault:"onboarding.db"`

	AuthService AuthServiceClientConfig `envPrefix:"AUTH_SERVICE_"`
	ConsulAddr  string                  `env:"CONSUL_ADDR"`
}

type AuthServiceClientConfig struct {
	Name          string        `env:"NAME"           envDefault:"auth-service"`
	Addr          string        `env:"ADDR"           envDefault:"localhost:50051"`
	VerifyTimeout time.Duration `env:"VERIFY_TIMEOUT" envDefault:"15s"`
	RevokeTimeout time.Duration `env:"REVOKE_TIMEOUT" envDefault:"5s"`
}

// Load parses the configuration from environment variables and validates it.
func Load() (*MobileClientConfig, error) {
	cfg, err := env.ParseAs[MobileClientConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *MobileClientConfig) validate() error {
	if c.ConsulAddr == "" && c.AuthService.Addr == "" {
		return fmt.Errorf("either CONSUL_ADDR or AUTH_SERVICE_ADDR must be set")
	}
	if c.AuthService.VerifyTimeout <= 0 {
		return fmt.Errorf("AUTH_SERVICE_VERIFY_TIMEOUT must be positive")
	}
	if c.AuthService.RevokeTimeout <= 0 {
		return fmt.Errorf("AUTH_SERVICE_REVOKE_TIMEOUT must be positive")
	}

	return nil
}
