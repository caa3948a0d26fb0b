package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/config"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/model"
	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/mobile-onboarding/shared/auth"
	"github.com/vasapolrittideah/mobile-onboarding/shared/security"
)

// CodeLength is the number of digits in an issued code.
const CodeLength = 4

// OTPUsecase defines the phone login operations.
type OTPUsecase interface {
	// RequestOTP issues a new code for phone and hands it to the configured delivery.
	RequestOTP(ctx context.Context, phone string) (*IssuedChallenge, error)

	// VerifyOTP consumes the code issued for phone and opens a session for its user.
	VerifyOTP(ctx context.Context, params VerifyOTPParams) (*VerifiedSession, error)

	// RevokeSession ends the session identified by sessionID.
	RevokeSession(ctx context.Context, sessionID string) error
}

// CodeDelivery hands an issued code to whoever should see it.
type CodeDelivery interface {
	Deliver(ctx context.Context, phone, code string, expiresIn time.Duration) error
}

// IssuedChallenge describes a code that was issued.
type IssuedChallenge struct {
	ExpiresIn time.Duration
}

// VerifyOTPParams defines the parameters for verifying a code.
type VerifyOTPParams struct {
	Phone     string
	Code      string
	IPAddress *string
	UserAgent *string
}

// VerifiedSession is the outcome of a successful verification.
type VerifiedSession struct {
	User        *model.User
	SessionID   string
	AccessToken string
}

var (
	ErrChallengeNotFound = errors.New("otp expired or not requested")
	ErrInvalidCode       = errors.New("invalid otp")
	ErrSessionNotFound   = errors.New("session not found")
)

type otpUsecase struct {
	challengeRepo  repository.ChallengeRepository
	userRepo       repository.UserRepository
	sessionRepo    repository.SessionRepository
	delivery       CodeDelivery
	jwtAuth        auth.JWTAuthenticator
	authServiceCfg *config.AuthServiceConfig
	logger         *zerolog.Logger
}

func NewOTPUsecase(
	challengeRepo repository.ChallengeRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	delivery CodeDelivery,
	jwtAuth auth.JWTAuthenticator,
	authServiceCfg *config.AuthServiceConfig,
	logger *zerolog.Logger,
) OTPUsecase {
	return &otpUsecase{
		challengeRepo:  challengeRepo,
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		delivery:       delivery,
		jwtAuth:        jwtAuth,
		authServiceCfg: authServiceCfg,
		logger:         logger,
	}
}

func (u *otpUsecase) RequestOTP(ctx context.Context, phone string) (*IssuedChallenge, error) {
	code, err := generateCode(CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp code: %w", err)
	}

	codeHash, err := security.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to hash otp code: %w", err)
	}

	ttl := u.authServiceCfg.OTP.TTL
	if err := u.challengeRepo.SaveChallenge(ctx, &model.Challenge{Phone: phone, CodeHash: codeHash}, ttl); err != nil {
		return nil, err
	}

	if err := u.delivery.Deliver(ctx, phone, code, ttl); err != nil {
		if delErr := u.challengeRepo.DeleteChallenge(ctx, phone); delErr != nil {
			u.logger.Warn().Err(delErr).Msg("failed to clean up undelivered otp challenge")
		}
		return nil, fmt.Errorf("failed to deliver otp code: %w", err)
	}

	return &IssuedChallenge{ExpiresIn: ttl}, nil
}

func (u *otpUsecase) VerifyOTP(ctx context.Context, params VerifyOTPParams) (*VerifiedSession, error) {
	challenge, err := u.challengeRepo.GetChallenge(ctx, params.Phone)
	if err != nil {
		if errors.Is(err, repository.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	ok, err := security.VerifyCode(params.Code, challenge.CodeHash)
	if err != nil {
		return nil, fmt.Errorf("failed to check otp code: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCode
	}

	if err := u.challengeRepo.ConsumeChallenge(ctx, params.Phone, challenge.CodeHash); err != nil {
		if errors.Is(err, repository.ErrChallengeNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}

	user, err := u.userRepo.FindOrCreateByPhone(ctx, params.Phone)
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.UpdateLastLogin(ctx, user.ID.Hex()); err != nil {
		u.logger.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to update last login")
	}

	return u.createSession(ctx, user, params)
}

func (u *otpUsecase) RevokeSession(ctx context.Context, sessionID string) error {
	if err := u.sessionRepo.RevokeSession(ctx, sessionID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (u *otpUsecase) createSession(
	ctx context.Context,
	user *model.User,
	params VerifyOTPParams,
) (*VerifiedSession, error) {
	ttl := u.authServiceCfg.Token.AccessTokenExpiresIn

	session, err := u.sessionRepo.CreateSession(ctx, &model.Session{
		UserID:    user.ID.Hex(),
		Phone:     user.Phone,
		IPAddress: params.IPAddress,
		UserAgent: params.UserAgent,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := u.jwtAuth.IssueSessionToken(user.ID.Hex(), user.Phone, session.ID.Hex(), ttl)
	if err != nil {
		return nil, err
	}

	return &VerifiedSession{
		User:        user,
		SessionID:   session.ID.Hex(),
		AccessToken: accessToken,
	}, nil
}

// generateCode returns a uniformly random numeric code of n digits.
func generateCode(n int) (string, error) {
	digits := make([]byte, n)
	for i := range digits {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + num.Int64())
	}
	return string(digits), nil
}
