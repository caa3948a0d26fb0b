package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// AuthServiceConfig holds the phone authentication service configuration.
type AuthServiceConfig struct {
	ServiceName string `env:"AUTH_SERVICE_NAME"      envDefault:"auth-service"`
	GRPCHost    string `env:"AUTH_SERVICE_GRPC_HOST" envDefault:"0.0.0.0"`
	GRPCPort    int    `env:"AUTH_SERVICE_GRPC_PORT" envDefault:"50051"`
	ConsulAddr  string `env:"CONSUL_ADDR"`
	LogLevel    string `env:"LOG_LEVEL"              envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"             envDefault:"json"`

	Mongo MongoConfig `envPrefix:"MONGO_"`
	Redis RedisConfig `envPrefix:"REDIS_"`
	Token TokenConfig `envPrefix:"TOKEN_"`
	OTP   OTPConfig   `envPrefix:"OTP_"`
}

type MongoConfig struct {
	URI      string `env:"URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"onboarding"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"`
}

type TokenConfig struct {
	Issuer               string        `env:"ISSUER"                  envDefault:"auth-service"`
	Audience             string        `env:"AUDIENCE"                envDefault:"mobile-client"`
	AccessTokenSecret    string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiresIn time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN" envDefault:"720h"`
}

type OTPConfig struct {
	TTL time.Duration `env:"TTL" envDefault:"5m"`

	// DevInbox receives issued codes by email when set; otherwise codes are only logged.
	DevInbox string `env:"DEV_INBOX"`
}

// Load parses the configuration from environment variables and validates it.
func Load() (*AuthServiceConfig, error) {
	cfg, err := env.ParseAs[AuthServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AuthServiceConfig) validate() error {
	if c.Token.AccessTokenSecret == "" {
		return fmt.Errorf("missing TOKEN_ACCESS_TOKEN_SECRET environment variable")
	}
	if c.Token.AccessTokenExpiresIn <= 0 {
		return fmt.Errorf("TOKEN_ACCESS_TOKEN_EXPIRES_IN must be positive")
	}
	if c.OTP.TTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	if c.GRPCPort <= 0 {
		return fmt.Errorf("AUTH_SERVICE_GRPC_PORT must be positive")
	}

	return nil
}
