package session

// DefaultLanguage is the UI language used until a preference is detected.
const DefaultLanguage = "en"

// User is the account record returned by a successful verification.
// The client treats it as opaque apart from displaying it.
type User struct {
	ID    string
	Phone string
}

// Credentials is the result of a successful OTP verification.
type Credentials struct {
	User  User
	Token string
}

// Session is a snapshot of the client's authentication state.
// User and Token are set if and only if IsAuthenticated is true.
type Session struct {
	IsAuthenticated bool
	User            *User
	Token           string
	Loading         bool
	Language        string

	// Version increases with every applied transition.
	Version uint64
}

// Valid reports whether s satisfies the authentication invariant.
func (s Session) Valid() bool {
	hasCredentials := s.User != nil && s.Token != ""
	return s.IsAuthenticated == hasCredentials
}

// Transition is a total function from one session to the next.
type Transition func(Session) Session

// LoginStart marks a login round-trip as outstanding.
func LoginStart() Transition {
	return func(s Session) Session {
		s.Loading = true
		return s
	}
}

// LoginSuccess authenticates the session with creds.
func LoginSuccess(creds Credentials) Transition {
	return func(s Session) Session {
		user := creds.User
		s.Loading = false
		s.IsAuthenticated = true
		s.User = &user
		s.Token = creds.Token
		return s
	}
}

// LoginFailure ends a login round-trip without touching the authentication status.
func LoginFailure() Transition {
	return func(s Session) Session {
		s.Loading = false
		return s
	}
}

// Logout clears the authentication status, user and token together.
func Logout() Transition {
	return func(s Session) Session {
		s.IsAuthenticated = false
		s.User = nil
		s.Token = ""
		return s
	}
}

// SetLanguage switches the session's UI language.
func SetLanguage(tag string) Transition {
	return func(s Session) Session {
		s.Language = tag
		return s
	}
}
