package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/mobile-onboarding/shared/interceptor"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
	"github.com/vasapolrittideah/mobile-onboarding/shared/utilities"
)

type requestOTPInput struct {
	Phone string `validate:"required,e164"`
}

type verifyOTPInput struct {
	Phone string `validate:"required,e164"`
	Code  string `validate:"required,len=4,number"`
}

func (h *authGRPCHandler) RequestOTP(
	ctx context.Context,
	req *otprpc.RequestOTPRequest,
) (*otprpc.RequestOTPResponse, error) {
	if err := h.validate.Struct(requestOTPInput{Phone: req.Phone}); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid mobile number")
	}

	issued, err := h.otpUsecase.RequestOTP(ctx, req.Phone)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to request otp")
		return nil, status.Errorf(codes.Internal, "something went wrong")
	}

	return &otprpc.RequestOTPResponse{ExpiresInSeconds: int64(issued.ExpiresIn.Seconds())}, nil
}

func (h *authGRPCHandler) VerifyOTP(
	ctx context.Context,
	req *otprpc.VerifyOTPRequest,
) (*otprpc.VerifyOTPResponse, error) {
	if err := h.validate.Struct(verifyOTPInput{Phone: req.Phone, Code: req.Code}); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Please enter 4-digit OTP")
	}

	client := utilities.ClientInfoFromContext(ctx)
	verified, err := h.otpUsecase.VerifyOTP(ctx, usecase.VerifyOTPParams{
		Phone:     req.Phone,
		Code:      req.Code,
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCode):
			return nil, status.Errorf(codes.Unauthenticated, "Invalid OTP")
		case errors.Is(err, usecase.ErrChallengeNotFound):
			return nil, status.Errorf(codes.NotFound, "OTP expired, request a new one")
		default:
			h.logger.Error().Err(err).Msg("failed to verify otp")
			return nil, status.Errorf(codes.Internal, "something went wrong")
		}
	}

	return &otprpc.VerifyOTPResponse{
		User: otprpc.User{
			ID:    verified.User.ID.Hex(),
			Phone: verified.User.Phone,
		},
		AccessToken: verified.AccessToken,
	}, nil
}

func (h *authGRPCHandler) RevokeSession(
	ctx context.Context,
	_ *otprpc.RevokeSessionRequest,
) (*otprpc.RevokeSessionResponse, error) {
	claims, ok := interceptor.ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Errorf(codes.Unauthenticated, "invalid session token claims")
	}

	if err := h.otpUsecase.RevokeSession(ctx, claims.ID); err != nil {
		if errors.Is(err, usecase.ErrSessionNotFound) {
			return nil, status.Errorf(codes.NotFound, "session not found")
		}
		h.logger.Error().Err(err).Msg("failed to revoke session")
		return nil, status.Errorf(codes.Internal, "something went wrong")
	}

	return &otprpc.RevokeSessionResponse{}, nil
}
