package interceptor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/mobile-onboarding/shared/auth"
)

type contextKey struct{}

var sessionClaimsKey = contextKey{}

// NewJWTInterceptor rejects calls without a valid bearer session token, except for
// exemptMethods. Validated claims are available through ClaimsFromContext.
func NewJWTInterceptor(jwtAuth auth.JWTAuthenticator, exemptMethods []string) grpc.UnaryServerInterceptor {
	exemptMap := make(map[string]bool)
	for _, method := range exemptMethods {
		exemptMap[method] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if exemptMap[info.FullMethod] {
			return handler(ctx, req)
		}

		claims, err := extractAndValidateJWT(ctx, jwtAuth)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		return handler(context.WithValue(ctx, sessionClaimsKey, claims), req)
	}
}

// ClaimsFromContext returns the session claims stored by the JWT interceptor.
func ClaimsFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*auth.SessionClaims)
	return claims, ok
}

// BearerToken formats token as an authorization metadata value.
func BearerToken(token string) string {
	return "Bearer " + token
}

func extractAndValidateJWT(ctx context.Context, jwtAuth auth.JWTAuthenticator) (*auth.SessionClaims, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errors.New("missing metadata")
	}

	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.SplitN(authHeaders[0], " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("invalid authorization header format")
	}

	return jwtAuth.ValidateSessionToken(parts[1])
}
