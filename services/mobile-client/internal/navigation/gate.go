package navigation

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/session"
)

// Tree identifies which screen set is mounted.
type Tree int

const (
	TreeLoading Tree = iota
	TreeUnauthenticated
	TreeAuthenticated
)

func (t Tree) String() string {
	switch t {
	case TreeLoading:
		return "loading"
	case TreeUnauthenticated:
		return "unauthenticated"
	case TreeAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Route names a screen inside a tree.
type Route string

const (
	RouteNone           Route = ""
	RouteLanguageSelect Route = "language_select"
	RoutePhoneLogin     Route = "phone_login"
	RouteOTPVerify      Route = "otp_verify"
	RouteHome           Route = "home"
)

// Params is the parameter bundle carried by a forward hop.
type Params map[string]string

// ParamPhone carries the 10-digit phone number to the OTP screen.
const ParamPhone = "phone"

// Select derives the tree to mount from s.
func Select(s session.Session) Tree {
	switch {
	case s.Loading:
		return TreeLoading
	case s.IsAuthenticated:
		return TreeAuthenticated
	default:
		return TreeUnauthenticated
	}
}

// EntryRoute is the first screen of t. The loading indicator has no screens.
func EntryRoute(t Tree) Route {
	switch t {
	case TreeUnauthenticated:
		return RouteLanguageSelect
	case TreeAuthenticated:
		return RouteHome
	default:
		return RouteNone
	}
}

// Renderer mounts a screen tree at its entry route. Mount is called with the gate locked and
// must not call back into the Gate.
type Renderer interface {
	Mount(tree Tree, entry Route)
}

// Gate mounts the tree selected by the session store on every change. It reads the store and
// never writes to it.
type Gate struct {
	renderer Renderer
	logger   *zerolog.Logger
	stop     func()

	mu       sync.Mutex
	version  uint64
	mounted  Tree
	hasMount bool
}

// NewGate mounts the tree for the store's current session and follows later changes until
// Close is called.
func NewGate(store *session.Store, renderer Renderer, logger *zerolog.Logger) *Gate {
	g := &Gate{renderer: renderer, logger: logger}
	g.stop = store.Subscribe(g.observe)
	g.observe(store.Snapshot())
	return g
}

// Current returns the mounted tree.
func (g *Gate) Current() Tree {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mounted
}

// Close stops following the session store.
func (g *Gate) Close() {
	g.stop()
}

func (g *Gate) observe(s session.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hasMount && s.Version <= g.version {
		return
	}
	g.version = s.Version

	tree := Select(s)
	if g.hasMount && tree == g.mounted {
		return
	}
	g.mounted = tree
	g.hasMount = true

	g.logger.Debug().Stringer("tree", tree).Uint64("version", s.Version).Msg("mounting screen tree")
	g.renderer.Mount(tree, EntryRoute(tree))
}
