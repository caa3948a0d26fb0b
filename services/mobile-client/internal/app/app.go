package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/language"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/navigation"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/otpflow"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/preference"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/session"
)

// Revoker ends a session on the server.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}

// Deps are the collaborators the client is built from. Sender and Revoker are optional.
type Deps struct {
	Preferences   preference.Store
	Verifier      otpflow.Verifier
	Sender        otpflow.CodeSender
	Revoker       Revoker
	Renderer      navigation.Renderer
	RevokeTimeout time.Duration
	Logger        *zerolog.Logger
}

// App wires the session store, language resolver and navigation gate of one client.
type App struct {
	Session  *session.Store
	Language *language.Resolver
	Gate     *navigation.Gate

	verifier      otpflow.Verifier
	sender        otpflow.CodeSender
	revoker       Revoker
	revokeTimeout time.Duration
	logger        *zerolog.Logger

	mu   sync.Mutex
	flow *otpflow.Flow

	revokes sync.WaitGroup
}

// New builds the client, restores the saved language and mounts the first screen tree.
func New(ctx context.Context, deps Deps) (*App, error) {
	if deps.Preferences == nil || deps.Verifier == nil || deps.Renderer == nil || deps.Logger == nil {
		return nil, errors.New("app: preferences, verifier, renderer and logger are required")
	}

	store := session.NewStore(deps.Logger)

	resolver, err := language.NewResolver(deps.Preferences, store, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("create language resolver: %w", err)
	}
	tag := resolver.Detect(ctx)
	deps.Logger.Info().Str("language", tag).Msg("language restored")

	return &App{
		Session:       store,
		Language:      resolver,
		Gate:          navigation.NewGate(store, deps.Renderer, deps.Logger),
		verifier:      deps.Verifier,
		sender:        deps.Sender,
		revoker:       deps.Revoker,
		revokeTimeout: deps.RevokeTimeout,
		logger:        deps.Logger,
	}, nil
}

// NewFlow starts a fresh onboarding attempt. nav and confirmer may be nil. The session store
// tracks one verification at a time, so the previous flow, if any, is closed first.
func (a *App) NewFlow(nav otpflow.Navigator, confirmer otpflow.Confirmer) *otpflow.Flow {
	opts := []otpflow.Option{}
	if nav != nil {
		opts = append(opts, otpflow.WithNavigator(nav))
	}
	if confirmer != nil {
		opts = append(opts, otpflow.WithConfirmer(confirmer))
	}
	if a.sender != nil {
		opts = append(opts, otpflow.WithCodeSender(a.sender))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.flow != nil {
		a.flow.Close()
	}
	a.flow = otpflow.New(a.Session, a.verifier, a.Language, a.logger, opts...)
	return a.flow
}

// Logout signs the user out locally and then revokes the server session in the background. A
// failed revoke is logged only.
func (a *App) Logout() {
	token := a.Session.Snapshot().Token
	a.Session.Logout()

	if a.revoker == nil || token == "" {
		return
	}

	a.revokes.Add(1)
	go func() {
		defer a.revokes.Done()

		ctx := context.Background()
		if a.revokeTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.revokeTimeout)
			defer cancel()
		}

		if err := a.revoker.Revoke(ctx, token); err != nil {
			a.logger.Warn().Err(err).Msg("failed to revoke server session")
			return
		}
		a.logger.Debug().Msg("server session revoked")
	}()
}

// Close closes the current flow, stops the gate and waits for background revokes to finish.
func (a *App) Close() {
	a.mu.Lock()
	if a.flow != nil {
		a.flow.Close()
		a.flow = nil
	}
	a.mu.Unlock()

	a.Gate.Close()
	a.revokes.Wait()
}
