package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// APIGatewayConfig holds the HTTP gateway configuration.
type APIGatewayConfig struct {
	ServiceName string `env:"API_GATEWAY_NAME"      envDefault:"api-gateway"`
	HTTPAddr    string `env:"API_GATEWAY_HTTP_ADDR" envDefault:":8080"`
	ConsulAddr  string `env:"CONSUL_ADDR"`
	LogLevel    string `env:"LOG_LEVEL"             envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"            envDefault:"json"`

	AuthService AuthServiceClientConfig `envPrefix:"AUTH_SERVICE_"`
}

type AuthServiceClientConfig struct {
	Name string `env:"NAME" envDefault:"auth-service"`
	Addr string `env:"ADDR" envDefault:"localhost:50051"`
}

// Load parses the configuration from environment variables and validates it.
func Load() (*APIGatewayConfig, error) {
	cfg, err := env.ParseAs[APIGatewayConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("API_GATEWAY_HTTP_ADDR must not be empty")
	}
	if cfg.ConsulAddr == "" && cfg.AuthService.Addr == "" {
		return nil, fmt.Errorf("either CONSUL_ADDR or AUTH_SERVICE_ADDR must be set")
	}

	return &cfg, nil
}
