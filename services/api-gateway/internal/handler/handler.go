package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/mobile-onboarding/services/api-gateway/internal/payload"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, payload.ErrorResponse{Message: message})
}

func decodeAndValidate(r *http.Request, validate *validator.Validate, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// writeGRPCError translates a downstream gRPC failure into an HTTP response. Client-facing status
// messages are passed through; anything else is logged and hidden.
func writeGRPCError(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	st := status.Convert(err)

	var code int
	switch st.Code() {
	case codes.InvalidArgument:
		code = http.StatusBadRequest
	case codes.Unauthenticated:
		code = http.StatusUnauthorized
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.PermissionDenied:
		code = http.StatusForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		logger.Warn().Err(err).Msg("auth service unavailable")
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	default:
		logger.Error().Err(err).Msg("auth service call failed")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	writeError(w, code, st.Message())
}
