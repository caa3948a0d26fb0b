package utilities

import (
	"fmt"
	"net"
	"strconv"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"

	// registers the consul:// resolver used by DialTarget
	_ "github.com/mbobakov/grpc-consul-resolver"
)

// ServiceRegistration describes a gRPC service announced to Consul.
type ServiceRegistration struct {
	ConsulAddr string
	Name       string
	ID         string
	Host       string
	Port       int
}

// RegisterWithConsul announces the service with a gRPC health check and returns a function that
// deregisters it.
func RegisterWithConsul(reg ServiceRegistration, logger *zerolog.Logger) (deregister func(), err error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = reg.ConsulAddr

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create consul client: %w", err)
	}

	addr := net.JoinHostPort(reg.Host, strconv.Itoa(reg.Port))
	err = client.Agent().ServiceRegister(&consulapi.AgentServiceRegistration{
		ID:      reg.ID,
		Name:    reg.Name,
		Address: reg.Host,
		Port:    reg.Port,
		Check: &consulapi.AgentServiceCheck{
			GRPC:                           addr,
			Interval:                       "10s",
			DeregisterCriticalServiceAfter: "1m",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("register service with consul: %w", err)
	}

	return func() {
		if err := client.Agent().ServiceDeregister(reg.ID); err != nil {
			logger.Warn().Err(err).Str("service_id", reg.ID).Msg("failed to deregister service from consul")
		}
	}, nil
}

// DialTarget returns the gRPC target for a service: a consul:// target when consulAddr is set,
// otherwise the static address.
func DialTarget(consulAddr, serviceName, staticAddr string) string {
	if consulAddr == "" {
		return staticAddr
	}
	return fmt.Sprintf("consul://%s/%s?healthy=true", consulAddr, serviceName)
}
