package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/api-gateway/internal/payload"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
	"github.com/vasapolrittideah/mobile-onboarding/shared/utilities"
)

type AuthHTTPHandler struct {
	client   otprpc.OTPServiceClient
	validate *validator.Validate
	logger   *zerolog.Logger
}

func NewAuthHTTPHandler(client otprpc.OTPServiceClient, logger *zerolog.Logger) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// RegisterRoutes mounts the phone authentication routes on r.
func (h *AuthHTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/otp", h.RequestOTP)
		r.Post("/otp/verify", h.VerifyOTP)
		r.Post("/logout", h.Logout)
	})
}

func (h *AuthHTTPHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.RequestOTPRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid mobile number")
		return
	}

	ctx := utilities.ForwardHTTPHeadersToGRPC(r.Context(), r, nil)
	resp, err := h.client.RequestOTP(ctx, &otprpc.RequestOTPRequest{Phone: req.Phone})
	if err != nil {
		writeGRPCError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusAccepted, payload.RequestOTPResponse{ExpiresInSeconds: resp.ExpiresInSeconds})
}

func (h *AuthHTTPHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyOTPRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Please enter 4-digit OTP")
		return
	}

	ctx := utilities.ForwardHTTPHeadersToGRPC(r.Context(), r, nil)
	resp, err := h.client.VerifyOTP(ctx, &otprpc.VerifyOTPRequest{Phone: req.Phone, Code: req.Code})
	if err != nil {
		writeGRPCError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, payload.VerifyOTPResponse{
		User:        payload.User{ID: resp.User.ID, Phone: resp.User.Phone},
		AccessToken: resp.AccessToken,
	})
}

func (h *AuthHTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeError(w, http.StatusUnauthorized, "missing authorization header")
		return
	}

	ctx := utilities.ForwardHTTPHeadersToGRPC(r.Context(), r, nil)
	if _, err := h.client.RevokeSession(ctx, &otprpc.RevokeSessionRequest{}); err != nil {
		writeGRPCError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
