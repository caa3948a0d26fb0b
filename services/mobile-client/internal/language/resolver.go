package language

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/preference"
)

// Fallback is the language used when no usable preference is stored.
const Fallback = "en"

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Sink receives the active language whenever it changes.
type Sink interface {
	SetLanguage(tag string)
}

// Resolver owns the active UI language and its persisted preference.
type Resolver struct {
	store  preference.Store
	sink   Sink
	logger *zerolog.Logger
	uni    *ut.UniversalTranslator

	mu     sync.RWMutex
	active string
}

// NewResolver creates a Resolver whose active language is Fallback until Detect runs.
// sink may be nil.
func NewResolver(store preference.Store, sink Sink, logger *zerolog.Logger) (*Resolver, error) {
	uni, err := newUniversalTranslator()
	if err != nil {
		return nil, err
	}

	return &Resolver{
		store:  store,
		sink:   sink,
		logger: logger,
		uni:    uni,
		active: Fallback,
	}, nil
}

// Supported lists the language tags with a message catalog.
func Supported() []string {
	tags := make([]string, 0, len(catalog))
	for tag := range catalog {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Detect reads the saved language and makes it active. It never fails: an unreadable, empty or
// unsupported preference resolves to Fallback.
func (r *Resolver) Detect(ctx context.Context) string {
	tag := Fallback

	saved, found, err := r.store.Get(ctx, preference.LanguageKey)
	switch {
	case err != nil:
		r.logger.Warn().Err(err).Msg("failed to read language preference, using fallback")
	case !found || strings.TrimSpace(saved) == "":
		r.logger.Debug().Msg("no language preference saved, using fallback")
	default:
		if normalized, ok := normalize(saved); ok {
			tag = normalized
		} else {
			r.logger.Warn().Str("tag", saved).Msg("saved language is not supported, using fallback")
		}
	}

	r.activate(tag)
	return tag
}

// Select makes tag the active language, then saves it. Saving is best-effort: a storage failure
// is logged and does not affect the active language.
func (r *Resolver) Select(ctx context.Context, tag string) error {
	normalized, ok := normalize(tag)
	if !ok {
		return ErrUnsupportedLanguage
	}

	r.activate(normalized)

	if err := r.store.Set(ctx, preference.LanguageKey, normalized); err != nil {
		r.logger.Warn().Err(err).Str("tag", normalized).Msg("failed to save language preference")
	}

	return nil
}

// Active returns the current language tag.
func (r *Resolver) Active() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Message returns the text for key in the active language, falling back to English and then to
// the key itself.
func (r *Resolver) Message(key string) string {
	for _, tag := range []string{r.Active(), Fallback} {
		trans, found := r.uni.GetTranslator(tag)
		if !found {
			continue
		}
		if text, err := trans.T(key); err == nil && text != "" {
			return text
		}
	}
	return key
}

func (r *Resolver) activate(tag string) {
	r.mu.Lock()
	r.active = tag
	r.mu.Unlock()

	if r.sink != nil {
		r.sink.SetLanguage(tag)
	}
}

func normalize(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	_, ok := catalog[tag]
	return tag, ok
}
