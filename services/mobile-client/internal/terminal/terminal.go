package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/app"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/language"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/navigation"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/otpflow"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/session"
)

// Terminal renders the onboarding screens as line prompts. It is the renderer, navigator and
// confirmer of one client.
type Terminal struct {
	in     *bufio.Scanner
	out    io.Writer
	logger *zerolog.Logger

	mu      sync.Mutex
	route   navigation.Route
	settled navigation.Tree
	mounted bool
	pending string
}

func New(in io.Reader, out io.Writer, logger *zerolog.Logger) *Terminal {
	return &Terminal{in: bufio.NewScanner(in), out: out, logger: logger}
}

// Mount shows the entry screen of tree. The loading indicator overlays the current screen, so
// returning from it to the same tree keeps the screen the user was on.
func (t *Terminal) Mount(tree navigation.Tree, entry navigation.Route) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tree == navigation.TreeLoading {
		fmt.Fprintln(t.out, "...")
		return
	}
	if t.mounted && tree == t.settled {
		return
	}
	t.settled = tree
	t.mounted = true
	t.route = entry
}

func (t *Terminal) Forward(route navigation.Route, params navigation.Params) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = route
	t.pending = params[navigation.ParamPhone]
}

func (t *Terminal) Back() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = navigation.RoutePhoneLogin
	t.pending = ""
}

func (t *Terminal) Confirm(user session.User) {
	t.logger.Debug().Str("user_id", user.ID).Msg("verification confirmed")
}

func (t *Terminal) current() navigation.Route {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.route
}

func (t *Terminal) show(route navigation.Route) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.route = route
}

func (t *Terminal) prompt(label string) (string, bool) {
	fmt.Fprint(t.out, label)
	if !t.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.in.Text()), true
}

// Run drives a until the input ends, the user quits or ctx is done.
func (t *Terminal) Run(ctx context.Context, a *app.App) error {
	var flow *otpflow.Flow
	defer func() {
		if flow != nil {
			flow.Close()
		}
	}()

	for ctx.Err() == nil {
		switch t.current() {
		case navigation.RouteLanguageSelect:
			line, ok := t.prompt(fmt.Sprintf("Language %v [%s]: ", language.Supported(), a.Language.Active()))
			if !ok {
				return nil
			}
			if line != "" {
				if err := a.Language.Select(ctx, line); err != nil {
					fmt.Fprintf(t.out, "%v\n", err)
					continue
				}
			}
			t.show(navigation.RoutePhoneLogin)

		case navigation.RoutePhoneLogin:
			if flow == nil {
				flow = a.NewFlow(t, t)
			}
			line, ok := t.prompt("Mobile number: ")
			if !ok {
				return nil
			}
			if err := flow.SetPhone(line); err != nil {
				return err
			}
			if err := flow.RequestOTP(ctx); err != nil {
				fmt.Fprintln(t.out, flow.View().Error)
			}

		case navigation.RouteOTPVerify:
			t.mu.Lock()
			phone := t.pending
			t.mu.Unlock()

			line, ok := t.prompt(fmt.Sprintf("OTP sent to %s%s (blank to go back): ", otpflow.CountryCode, phone))
			if !ok {
				return nil
			}
			if line == "" {
				if err := flow.Back(); err != nil {
					return err
				}
				continue
			}
			if err := flow.SetOTP(line); err != nil {
				return err
			}
			if err := flow.Verify(ctx); err != nil {
				if errors.Is(err, otpflow.ErrAttemptDiscarded) || errors.Is(err, otpflow.ErrFlowClosed) {
					return nil
				}
				fmt.Fprintln(t.out, flow.View().Error)
				continue
			}
			fmt.Fprintln(t.out, a.Language.Message(language.MsgVerified))

		case navigation.RouteHome:
			s := a.Session.Snapshot()
			phone := ""
			if s.User != nil {
				phone = s.User.Phone
			}
			line, ok := t.prompt(fmt.Sprintf("Signed in as %s. Type logout or quit: ", phone))
			if !ok {
				return nil
			}
			switch line {
			case "logout":
				if flow != nil {
					flow.Close()
					flow = nil
				}
				a.Logout()
			case "quit":
				return nil
			}

		default:
			return fmt.Errorf("no screen for route %q", t.current())
		}
	}

	return ctx.Err()
}
