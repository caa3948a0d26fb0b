package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/model"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/mobile-onboarding/shared/auth"
	"github.com/vasapolrittideah/mobile-onboarding/shared/interceptor"
	"github.com/vasapolrittideah/mobile-onboarding/shared/logger"
	"github.com/vasapolrittideah/mobile-onboarding/shared/otprpc"
)

type mockOTPUsecase struct {
	RequestOTPFunc    func(ctx context.Context, phone string) (*usecase.IssuedChallenge, error)
	VerifyOTPFunc     func(ctx context.Context, params usecase.VerifyOTPParams) (*usecase.VerifiedSession, error)
	RevokeSessionFunc func(ctx context.Context, sessionID string) error
}

func (m *mockOTPUsecase) RequestOTP(ctx context.Context, phone string) (*usecase.IssuedChallenge, error) {
	return m.RequestOTPFunc(ctx, phone)
}

func (m *mockOTPUsecase) VerifyOTP(
	ctx context.Context,
	params usecase.VerifyOTPParams,
) (*usecase.VerifiedSession, error) {
	return m.VerifyOTPFunc(ctx, params)
}

func (m *mockOTPUsecase) RevokeSession(ctx context.Context, sessionID string) error {
	return m.RevokeSessionFunc(ctx, sessionID)
}

func TestAuthGRPCHandler_RequestOTP(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		err      error
		wantCode codes.Code
	}{
		{name: "issued", phone: "+919876543210", wantCode: codes.OK},
		{name: "not e164", phone: "9876543210", wantCode: codes.InvalidArgument},
		{name: "empty", phone: "", wantCode: codes.InvalidArgument},
		{name: "usecase failure", phone: "+919876543210", err: errors.New("redis down"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthGRPCHandler(&mockOTPUsecase{
				RequestOTPFunc: func(ctx context.Context, phone string) (*usecase.IssuedChallenge, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &usecase.IssuedChallenge{ExpiresIn: 5 * time.Minute}, nil
				},
			}, logger.Nop())

			resp, err := h.RequestOTP(context.Background(), &otprpc.RequestOTPRequest{Phone: tt.phone})

			assert.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantCode == codes.OK {
				assert.Equal(t, int64(300), resp.ExpiresInSeconds)
			}
		})
	}
}

func TestAuthGRPCHandler_VerifyOTP(t *testing.T) {
	userID := bson.NewObjectID()

	tests := []struct {
		name        string
		code        string
		err         error
		wantCode    codes.Code
		wantMessage string
	}{
		{name: "verified", code: "4321", wantCode: codes.OK},
		{name: "short code", code: "432", wantCode: codes.InvalidArgument, wantMessage: "Please enter 4-digit OTP"},
		{name: "wrong code", code: "4321", err: usecase.ErrInvalidCode, wantCode: codes.Unauthenticated, wantMessage: "Invalid OTP"},
		{
			name:        "expired",
			code:        "4321",
			err:         usecase.ErrChallengeNotFound,
			wantCode:    codes.NotFound,
			wantMessage: "OTP expired, request a new one",
		},
		{name: "internal", code: "4321", err: errors.New("mongo down"), wantCode: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthGRPCHandler(&mockOTPUsecase{
				VerifyOTPFunc: func(ctx context.Context, params usecase.VerifyOTPParams) (*usecase.VerifiedSession, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &usecase.VerifiedSession{
						User:        &model.User{ID: userID, Phone: params.Phone},
						SessionID:   "session-1",
						AccessToken: "token-1",
					}, nil
				},
			}, logger.Nop())

			resp, err := h.VerifyOTP(context.Background(), &otprpc.VerifyOTPRequest{Phone: "+919876543210", Code: tt.code})

			require.Equal(t, tt.wantCode, status.Code(err))
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, status.Convert(err).Message())
			}
			if tt.wantCode == codes.OK {
				assert.Equal(t, userID.Hex(), resp.User.ID)
				assert.Equal(t, "+919876543210", resp.User.Phone)
				assert.Equal(t, "token-1", resp.AccessToken)
			}
		})
	}
}

func TestAuthGRPCHandler_RevokeSession(t *testing.T) {
	var revoked string
	h := NewAuthGRPCHandler(&mockOTPUsecase{
		RevokeSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "missing" {
				return usecase.ErrSessionNotFound
			}
			revoked = sessionID
			return nil
		},
	}, logger.Nop())

	_, err := h.RevokeSession(context.Background(), &otprpc.RevokeSessionRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	jwtAuth := auth.NewJWTAuthenticator("mobile-client", "auth-service", "secret")
	intercept := interceptor.NewJWTInterceptor(jwtAuth, nil)

	call := func(sessionID string) error {
		token, err := jwtAuth.IssueSessionToken("user-1", "+919876543210", sessionID, time.Hour)
		require.NoError(t, err)
		ctx := incomingBearer(token)
		_, err = intercept(ctx, &otprpc.RevokeSessionRequest{}, revokeInfo(), func(ctx context.Context, req any) (any, error) {
			return h.RevokeSession(ctx, req.(*otprpc.RevokeSessionRequest))
		})
		return err
	}

	require.NoError(t, call("session-1"))
	assert.Equal(t, "session-1", revoked)
	assert.Equal(t, codes.NotFound, status.Code(call("missing")))
}

func TestAuthGRPCHandler_VerifyOTPRecordsClient(t *testing.T) {
	var got usecase.VerifyOTPParams
	h := NewAuthGRPCHandler(&mockOTPUsecase{
		VerifyOTPFunc: func(ctx context.Context, params usecase.VerifyOTPParams) (*usecase.VerifiedSession, error) {
			got = params
			return &usecase.VerifiedSession{
				User:        &model.User{ID: bson.NewObjectID(), Phone: params.Phone},
				AccessToken: "token-1",
			}, nil
		},
	}, logger.Nop())

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		"x-real-ip", "203.0.113.7",
		"user-agent", "onboarding/1.0",
	))
	_, err := h.VerifyOTP(ctx, &otprpc.VerifyOTPRequest{Phone: "+919876543210", Code: "1234"})
	require.NoError(t, err)

	require.NotNil(t, got.IPAddress)
	require.NotNil(t, got.UserAgent)
	assert.Equal(t, "203.0.113.7", *got.IPAddress)
	assert.Equal(t, "onboarding/1.0", *got.UserAgent)
}
