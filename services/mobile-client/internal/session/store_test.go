package session

import (
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/mobile-onboarding/shared/logger"
)

func newTestStore() *Store {
	return NewStore(logger.Nop())
}

func TestNewStore_Defaults(t *testing.T) {
	s := newTestStore().Snapshot()

	assert.False(t, s.IsAuthenticated)
	assert.Nil(t, s.User)
	assert.Empty(t, s.Token)
	assert.False(t, s.Loading)
	assert.Equal(t, DefaultLanguage, s.Language)
	assert.True(t, s.Valid())
}

func TestStore_Transitions(t *testing.T) {
	creds := Credentials{User: User{ID: "1"}, Token: "abc"}

	tests := []struct {
		name  string
		apply func(s *Store)
		want  Session
	}{
		{
			name:  "login start sets loading",
			apply: func(s *Store) { s.LoginStart() },
			want:  Session{Loading: true, Language: "en"},
		},
		{
			name: "login success authenticates and clears loading",
			apply: func(s *Store) {
				s.LoginStart()
				require.NoError(t, s.LoginSuccess(creds))
			},
			want: Session{IsAuthenticated: true, User: &User{ID: "1"}, Token: "abc", Language: "en"},
		},
		{
			name: "login failure keeps existing authentication",
			apply: func(s *Store) {
				require.NoError(t, s.LoginSuccess(creds))
				s.LoginStart()
				s.LoginFailure()
			},
			want: Session{IsAuthenticated: true, User: &User{ID: "1"}, Token: "abc", Language: "en"},
		},
		{
			name: "logout leaves loading and language untouched",
			apply: func(s *Store) {
				require.NoError(t, s.LoginSuccess(creds))
				s.SetLanguage("or")
				s.LoginStart()
				s.Logout()
			},
			want: Session{Loading: true, Language: "or"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			tt.apply(s)

			got := s.Snapshot()
			got.Version = 0
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_LoginSuccessRejectsMissingCredentials(t *testing.T) {
	s := newTestStore()

	err := s.LoginSuccess(Credentials{User: User{ID: "1"}})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	err = s.LoginSuccess(Credentials{Token: "abc"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestTransitions_InvariantHoldsForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		s := newTestStore()
		for step := 0; step < 50; step++ {
			switch rng.Intn(5) {
			case 0:
				s.LoginStart()
			case 1:
				_ = s.LoginSuccess(Credentials{
					User:  User{ID: strconv.Itoa(rng.Intn(100) + 1)},
					Token: "tok-" + strconv.Itoa(step),
				})
			case 2:
				s.LoginFailure()
			case 3:
				s.Logout()
			case 4:
				s.SetLanguage([]string{"en", "or"}[rng.Intn(2)])
			}

			snap := s.Snapshot()
			require.Truef(t, snap.Valid(), "run %d step %d: %+v", run, step, snap)
		}
	}
}

func TestLogout_FromAnyState(t *testing.T) {
	states := []Session{
		{},
		{Loading: true},
		{IsAuthenticated: true, User: &User{ID: "1"}, Token: "abc"},
		{IsAuthenticated: true, User: &User{ID: "1"}, Token: "abc", Loading: true, Language: "or"},
	}

	for i, st := range states {
		got := Logout()(st)
		assert.Falsef(t, got.IsAuthenticated, "state %d", i)
		assert.Nilf(t, got.User, "state %d", i)
		assert.Emptyf(t, got.Token, "state %d", i)
		assert.Equalf(t, st.Loading, got.Loading, "state %d", i)
		assert.Equalf(t, st.Language, got.Language, "state %d", i)
	}
}

func TestStore_SubscribeReceivesEverySnapshot(t *testing.T) {
	s := newTestStore()

	var got []Session
	unsubscribe := s.Subscribe(func(snap Session) {
		got = append(got, snap)
	})

	s.LoginStart()
	require.NoError(t, s.LoginSuccess(Credentials{User: User{ID: "1"}, Token: "abc"}))
	unsubscribe()
	s.Logout()

	require.Len(t, got, 2)
	assert.True(t, got[0].Loading)
	assert.True(t, got[1].IsAuthenticated)
	assert.Less(t, got[0].Version, got[1].Version)
}

func TestAttempt_SucceedAuthenticates(t *testing.T) {
	s := newTestStore()

	attempt := s.Begin()
	assert.True(t, s.Snapshot().Loading)

	require.NoError(t, attempt.Succeed(Credentials{User: User{ID: "1"}, Token: "abc"}))

	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.False(t, snap.Loading)

	assert.ErrorIs(t, attempt.Succeed(Credentials{User: User{ID: "1"}, Token: "abc"}), ErrAttemptSettled)
}

func TestAttempt_LogoutOverridesInFlightSuccess(t *testing.T) {
	s := newTestStore()

	attempt := s.Begin()
	s.Logout()

	err := attempt.Succeed(Credentials{User: User{ID: "1"}, Token: "abc"})
	assert.ErrorIs(t, err, ErrSuperseded)

	snap := s.Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.False(t, snap.Loading)
}

func TestAttempt_FailIsIdempotent(t *testing.T) {
	s := newTestStore()

	attempt := s.Begin()
	attempt.Fail()
	v := s.Snapshot().Version
	attempt.Fail()

	assert.Equal(t, v, s.Snapshot().Version)
	assert.False(t, s.Snapshot().Loading)
}

func TestStore_ConcurrentTransitionsStayValid(t *testing.T) {
	s := newTestStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			attempt := s.Begin()
			_ = attempt.Succeed(Credentials{User: User{ID: "1"}, Token: "abc"})
		}()
		go func() {
			defer wg.Done()
			s.Logout()
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.True(t, snap.Valid())
	assert.False(t, snap.Loading)
}
