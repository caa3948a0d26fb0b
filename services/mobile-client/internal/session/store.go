package session

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrMissingCredentials is returned when a login success carries no user ID or token.
	ErrMissingCredentials = errors.New("login success requires a user and a token")

	// ErrSuperseded is returned when a logout was applied while a login attempt was outstanding.
	ErrSuperseded = errors.New("login attempt superseded by logout")

	// ErrAttemptSettled is returned when a login attempt is settled twice.
	ErrAttemptSettled = errors.New("login attempt already settled")
)

// Listener receives a full session snapshot after every applied transition.
type Listener func(Session)

// Store is the single owner of the client's Session. Transitions are applied in arrival order
// and are never partially visible to readers.
type Store struct {
	logger *zerolog.Logger

	mu        sync.Mutex
	state     Session
	epoch     uint64
	listeners map[uint64]Listener
	nextID    uint64
}

// NewStore creates an unauthenticated store using the default language.
func NewStore(logger *zerolog.Logger) *Store {
	return &Store{
		logger:    logger,
		state:     Session{Language: DefaultLanguage},
		listeners: make(map[uint64]Listener),
	}
}

// Snapshot returns the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers l for future snapshots and returns a function that removes it.
// Listeners run on the goroutine that applied the transition and may be invoked concurrently;
// use Session.Version to discard out-of-order snapshots.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// LoginStart marks a verification round-trip as outstanding.
func (s *Store) LoginStart() {
	s.apply("login_start", LoginStart())
}

// LoginSuccess authenticates the session with creds. Both a user ID and a token are required.
func (s *Store) LoginSuccess(creds Credentials) error {
	if creds.User.ID == "" || creds.Token == "" {
		return ErrMissingCredentials
	}
	s.apply("login_success", LoginSuccess(creds))
	return nil
}

// LoginFailure clears the loading state and leaves the credentials untouched.
func (s *Store) LoginFailure() {
	s.apply("login_failure", LoginFailure())
}

// Logout clears the session credentials. Any login attempt outstanding at this point can no
// longer authenticate the session.
func (s *Store) Logout() {
	s.apply("logout", func(st Session) Session {
		s.epoch++
		return Logout()(st)
	})
}

// SetLanguage records the active UI language.
func (s *Store) SetLanguage(tag string) {
	s.apply("set_language", SetLanguage(tag))
}

// Begin applies login-start and returns a handle used to settle the attempt.
func (s *Store) Begin() *Attempt {
	var epoch uint64
	s.apply("login_start", func(st Session) Session {
		epoch = s.epoch
		return LoginStart()(st)
	})
	return &Attempt{store: s, epoch: epoch}
}

// apply runs t under the store lock, then notifies listeners outside it.
func (s *Store) apply(name string, t Transition) Session {
	s.mu.Lock()
	next := t(s.state)
	next.Version = s.state.Version + 1
	s.state = next

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.logger.Debug().
		Str("transition", name).
		Uint64("version", next.Version).
		Bool("authenticated", next.IsAuthenticated).
		Bool("loading", next.Loading).
		Msg("session transition applied")

	for _, l := range listeners {
		l(next)
	}

	return next
}

// Attempt is one outstanding login round-trip started with Store.Begin.
type Attempt struct {
	store *Store
	epoch uint64

	mu      sync.Mutex
	settled bool
}

// Succeed applies login-success unless a logout happened after the attempt began, in which case
// only the loading flag is cleared and ErrSuperseded is returned.
func (a *Attempt) Succeed(creds Credentials) error {
	if creds.User.ID == "" || creds.Token == "" {
		a.Fail()
		return ErrMissingCredentials
	}
	if !a.settle() {
		return ErrAttemptSettled
	}

	var superseded bool
	a.store.apply("login_success", func(st Session) Session {
		if a.store.epoch != a.epoch {
			superseded = true
			return LoginFailure()(st)
		}
		return LoginSuccess(creds)(st)
	})
	if superseded {
		return ErrSuperseded
	}
	return nil
}

// Fail applies login-failure. Settling an already settled attempt is a no-op.
func (a *Attempt) Fail() {
	if !a.settle() {
		return
	}
	a.store.LoginFailure()
}

func (a *Attempt) settle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settled {
		return false
	}
	a.settled = true
	return true
}
