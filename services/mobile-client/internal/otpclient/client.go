package otpclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/otpflow"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/session"
	"github.com/vasapolrittideah/mobile-onboarding/shared/interceptor"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
)

var ErrEmptyCredentials = errors.New("auth service returned empty credentials")

// Client talks to the auth service on behalf of the onboarding flow.
type Client struct {
	rpc     otprpc.OTPServiceClient
	timeout time.Duration
	logger  *zerolog.Logger
}

// New creates a Client on cc. A non-positive timeout leaves call deadlines to the caller's
// context.
func New(cc grpc.ClientConnInterface, timeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		rpc:     otprpc.NewOTPServiceClient(cc),
		timeout: timeout,
		logger:  logger,
	}
}

// SendCode asks the auth service to issue and deliver a code for phone.
func (c *Client) SendCode(ctx context.Context, phone string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.RequestOTP(ctx, &otprpc.RequestOTPRequest{Phone: phone})
	if err != nil {
		return fmt.Errorf("request otp: %w", err)
	}

	c.logger.Debug().Int64("expires_in_seconds", resp.ExpiresInSeconds).Msg("otp requested")
	return nil
}

// Verify checks otp for phone. Rejections carry the server's message as a
// *otpflow.VerificationError; transport failures carry no message so the flow shows its
// generic text.
func (c *Client) Verify(ctx context.Context, phone, otp string) (session.Credentials, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.rpc.VerifyOTP(ctx, &otprpc.VerifyOTPRequest{Phone: phone, Code: otp})
	if err != nil {
		return session.Credentials{}, verificationError(err)
	}
	if resp.User.ID == "" || resp.AccessToken == "" {
		return session.Credentials{}, &otpflow.VerificationError{Err: ErrEmptyCredentials}
	}

	return session.Credentials{
		User:  session.User{ID: resp.User.ID, Phone: resp.User.Phone},
		Token: resp.AccessToken,
	}, nil
}

// Revoke ends the server session identified by token.
func (c *Client) Revoke(ctx context.Context, token string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", interceptor.BearerToken(token))
	if _, err := c.rpc.RevokeSession(ctx, &otprpc.RevokeSessionRequest{}); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func verificationError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return &otpflow.VerificationError{Err: err}
	}

	switch st.Code() {
	case codes.InvalidArgument, codes.Unauthenticated, codes.NotFound, codes.FailedPrecondition:
		return &otpflow.VerificationError{Message: st.Message(), Err: err}
	case codes.Canceled:
		return &otpflow.VerificationError{Err: context.Canceled}
	case codes.DeadlineExceeded:
		return &otpflow.VerificationError{Err: context.DeadlineExceeded}
	default:
		return &otpflow.VerificationError{Err: err}
	}
}
