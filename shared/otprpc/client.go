package otprpc

import (
	"context"

	"google.golang.org/grpc"
)

// OTPServiceClient is the client API for the OTP service.
type OTPServiceClient interface {
	RequestOTP(ctx context.Context, in *RequestOTPRequest, opts ...grpc.CallOption) (*RequestOTPResponse, error)
	VerifyOTP(ctx context.Context, in *VerifyOTPRequest, opts ...grpc.CallOption) (*VerifyOTPResponse, error)
	RevokeSession(
		ctx context.Context,
		in *RevokeSessionRequest,
		opts ...grpc.CallOption,
	) (*RevokeSessionResponse, error)
}

type otpServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewOTPServiceClient creates a client that encodes messages with the JSON codec.
func NewOTPServiceClient(cc grpc.ClientConnInterface) OTPServiceClient {
	return &otpServiceClient{cc: cc}
}

func (c *otpServiceClient) RequestOTP(
	ctx context.Context,
	in *RequestOTPRequest,
	opts ...grpc.CallOption,
) (*RequestOTPResponse, error) {
	out := new(RequestOTPResponse)
	if err := c.cc.Invoke(ctx, RequestOTPMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *otpServiceClient) VerifyOTP(
	ctx context.Context,
	in *VerifyOTPRequest,
	opts ...grpc.CallOption,
) (*VerifyOTPResponse, error) {
	out := new(VerifyOTPResponse)
	if err := c.cc.Invoke(ctx, VerifyOTPMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *otpServiceClient) RevokeSession(
	ctx context.Context,
	in *RevokeSessionRequest,
	opts ...grpc.CallOption,
) (*RevokeSessionResponse, error) {
	out := new(RevokeSessionResponse)
	if err := c.cc.Invoke(ctx, RevokeSessionMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
