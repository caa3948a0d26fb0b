package preference

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorageUnavailable is returned when the underlying key-value storage cannot be read or
// written. Callers treat it as non-fatal and fall back to defaults.
var ErrStorageUnavailable = errors.New("preference storage unavailable")

// LanguageKey is the key under which the selected UI language tag is stored.
const LanguageKey = "onboarding.language"

// Store defines the key-value operations the client persists preferences through.
type Store interface {
	// Get returns the value stored under key. found is false when nothing was stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
