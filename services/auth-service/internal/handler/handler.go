package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
)

type authGRPCHandler struct {
	otpUsecase usecase.OTPUsecase
	validate   *validator.Validate
	logger     *zerolog.Logger
}

// NewAuthGRPCHandler creates the gRPC handler for the OTP service.
func NewAuthGRPCHandler(otpUsecase usecase.OTPUsecase, logger *zerolog.Logger) otprpc.OTPServiceServer {
	return &authGRPCHandler{
		otpUsecase: otpUsecase,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}
