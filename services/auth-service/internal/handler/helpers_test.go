package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/vasapolrittideah/mobile-onboarding/shared/interceptor"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
)

func incomingBearer(token string) context.Context {
	return metadata.NewIncomingContext(
		context.Background(),
		metadata.Pairs("authorization", interceptor.BearerToken(token)),
	)
}

func revokeInfo() *grpc.UnaryServerInfo {
	return &grpc.UnaryServerInfo{FullMethod: otprpc.RevokeSessionMethod}
}
