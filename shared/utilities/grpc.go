package utilities

import (
	"context"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

var defaultHeadersToForward = []string{
	"Authorization",
	"User-Agent",
	"X-Request-ID",
	"X-Forwarded-For",
	"X-Real-IP",
}

// RegisterHealthServer registers the gRPC health check service and reports the server and
// services as serving.
func RegisterHealthServer(grpcServer *grpc.Server, services ...string) *health.Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	return healthServer
}

// ForwardHTTPHeadersToGRPC returns a context carrying the request's headers as outgoing gRPC
// metadata, so the gateway can pass them on to downstream services.
func ForwardHTTPHeadersToGRPC(ctx context.Context, r *http.Request, headersToForward []string) context.Context {
	md := metadata.New(nil)

	allHeaders := make([]string, len(defaultHeadersToForward))
	copy(allHeaders, defaultHeadersToForward)
	allHeaders = append(allHeaders, headersToForward...)

	seen := make(map[string]bool)
	for _, header := range allHeaders {
		if seen[header] {
			continue
		}
		seen[header] = true
		if values := r.Header.Values(header); len(values) > 0 {
			md.Set(header, values...)
		}
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// ClientInfo identifies the device behind an incoming call.
type ClientInfo struct {
	IPAddress *string
	UserAgent *string
}

// ClientInfoFromContext reads the caller's address and user agent. Headers forwarded by the
// gateway take precedence over the transport peer, which is the gateway itself in that case.
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	var info ClientInfo

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if v := firstValue(md, "x-real-ip"); v != "" {
			info.IPAddress = &v
		} else if v := firstValue(md, "x-forwarded-for"); v != "" {
			ip := strings.TrimSpace(strings.Split(v, ",")[0])
			info.IPAddress = &ip
		}
		if v := firstValue(md, "user-agent"); v != "" {
			info.UserAgent = &v
		}
	}

	if info.IPAddress == nil {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			addr := p.Addr.String()
			info.IPAddress = &addr
		}
	}

	return info
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
