package otprpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "onboarding.otp.v1.OTPService"

const (
	RequestOTPMethod    = "/" + ServiceName + "/RequestOTP"
	VerifyOTPMethod     = "/" + ServiceName + "/VerifyOTP"
	RevokeSessionMethod = "/" + ServiceName + "/RevokeSession"
)

// OTPServiceServer is implemented by the phone authentication backend.
type OTPServiceServer interface {
	RequestOTP(context.Context, *RequestOTPRequest) (*RequestOTPResponse, error)
	VerifyOTP(context.Context, *VerifyOTPRequest) (*VerifyOTPResponse, error)
	RevokeSession(context.Context, *RevokeSessionRequest) (*RevokeSessionResponse, error)
}

// RegisterOTPServiceServer registers srv on s.
func RegisterOTPServiceServer(s grpc.ServiceRegistrar, srv OTPServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OTPServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RequestOTP", Handler: requestOTPHandler},
		{MethodName: "VerifyOTP", Handler: verifyOTPHandler},
		{MethodName: "RevokeSession", Handler: revokeSessionHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "otprpc",
}

func requestOTPHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(RequestOTPRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OTPServiceServer).RequestOTP(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RequestOTPMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OTPServiceServer).RequestOTP(ctx, req.(*RequestOTPRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func verifyOTPHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(VerifyOTPRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OTPServiceServer).VerifyOTP(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: VerifyOTPMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OTPServiceServer).VerifyOTP(ctx, req.(*VerifyOTPRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func revokeSessionHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(RevokeSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OTPServiceServer).RevokeSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RevokeSessionMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OTPServiceServer).RevokeSession(ctx, req.(*RevokeSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}
