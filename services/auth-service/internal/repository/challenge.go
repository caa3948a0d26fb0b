package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vasapolrittideah/mobile-onboarding/services/auth-service/internal/model"
)

// ErrChallengeNotFound is returned when no unexpired challenge exists for a phone.
var ErrChallengeNotFound = errors.New("otp challenge not found")

// ChallengeRepository stores issued one-time code hashes until they expire or are consumed.
type ChallengeRepository interface {
	// SaveChallenge replaces any challenge for the same phone.
	SaveChallenge(ctx context.Context, challenge *model.Challenge, ttl time.Duration) error
	GetChallenge(ctx context.Context, phone string) (*model.Challenge, error)

	// ConsumeChallenge removes the challenge for phone if it still holds codeHash. Of concurrent
	// callers at most one succeeds; the others get ErrChallengeNotFound.
	ConsumeChallenge(ctx context.Context, phone, codeHash string) error

	DeleteChallenge(ctx context.Context, phone string) error
}

type challengeRedisRepository struct {
	client *redis.Client
}

func NewChallengeRedisRepository(client *redis.Client) ChallengeRepository {
	return &challengeRedisRepository{client: client}
}

func challengeKey(phone string) string {
	return fmt.Sprintf("otp:challenge:%s", phone)
}

func (r *challengeRedisRepository) SaveChallenge(
	ctx context.Context,
	challenge *model.Challenge,
	ttl time.Duration,
) error {
	challenge.ExpiresAt = time.Now().Add(ttl)
	if err := r.client.Set(ctx, challengeKey(challenge.Phone), challenge.CodeHash, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}
	return nil
}

func (r *challengeRedisRepository) GetChallenge(ctx context.Context, phone string) (*model.Challenge, error) {
	key := challengeKey(phone)

	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get otp challenge: %w", err)
	}

	codeHash, err := getCmd.Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp challenge: %w", err)
	}

	challenge := &model.Challenge{Phone: phone, CodeHash: codeHash}
	if ttl, err := ttlCmd.Result(); err == nil && ttl > 0 {
		challenge.ExpiresAt = time.Now().Add(ttl)
	}

	return challenge, nil
}

func (r *challengeRedisRepository) ConsumeChallenge(ctx context.Context, phone, codeHash string) error {
	key := challengeKey(phone)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return ErrChallengeNotFound
		}
		if err != nil {
			return err
		}
		if stored != codeHash {
			return ErrChallengeNotFound
		}

		var del *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			del = pipe.Del(ctx, key)
			return nil
		})
		if err != nil {
			return err
		}
		if del.Val() != 1 {
			return ErrChallengeNotFound
		}
		return nil
	}, key)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrChallengeNotFound), errors.Is(err, redis.TxFailedErr):
		return ErrChallengeNotFound
	default:
		return fmt.Errorf("failed to consume otp challenge: %w", err)
	}
}

func (r *challengeRedisRepository) DeleteChallenge(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, challengeKey(phone)).Err(); err != nil {
		return fmt.Errorf("failed to delete otp challenge: %w", err)
	}
	return nil
}
