package otpflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/language"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/navigation"
	"github.com/vasapolrittideah/mobile-onboarding/services/mobile-client/internal/session"
)

// State is the step a Flow is at.
type State int

const (
	Idle State = iota
	PhoneEntered
	OtpRequested
	OtpSubmitted
	Verified
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PhoneEntered:
		return "phone_entered"
	case OtpRequested:
		return "otp_requested"
	case OtpSubmitted:
		return "otp_submitted"
	case Verified:
		return "verified"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Verifier checks an OTP for an E.164 phone number. Rejections are reported as
// *VerificationError.
type Verifier interface {
	Verify(ctx context.Context, phone, otp string) (session.Credentials, error)
}

// CodeSender asks the backend to deliver a code to phone.
type CodeSender interface {
	SendCode(ctx context.Context, phone string) error
}

// Navigator performs the screen hops the flow requests.
type Navigator interface {
	Forward(route navigation.Route, params navigation.Params)
	Back()
}

// Confirmer presents the post-verification confirmation.
type Confirmer interface {
	Confirm(user session.User)
}

// Messages looks up localized user-facing text.
type Messages interface {
	Message(key string) string
}

// PendingVerification is the phone and code collected for one attempt.
type PendingVerification struct {
	RawPhoneDigits string
	CountryCode    string
	OTPDigits      string
}

// Phone returns the E.164 form of the pending phone number.
func (p PendingVerification) Phone() string {
	return p.CountryCode + p.RawPhoneDigits
}

// View is a snapshot of what the phone and OTP screens render.
type View struct {
	State      State
	PhoneInput string
	Pending    *PendingVerification
	Error      string
}

// Option configures a Flow.
type Option func(*Flow)

// WithNavigator sets where the flow sends its forward and back hops.
func WithNavigator(n Navigator) Option {
	return func(f *Flow) { f.navigator = n }
}

// WithConfirmer sets who is told about a successful verification.
func WithConfirmer(c Confirmer) Option {
	return func(f *Flow) { f.confirmer = c }
}

// WithCodeSender makes the flow request code delivery before moving to the OTP screen.
func WithCodeSender(s CodeSender) Option {
	return func(f *Flow) { f.sender = s }
}

// Flow drives one onboarding attempt from phone entry to a verified session.
//
// The flow's lock is held while it applies session transitions, so session listeners must not
// call back into the flow.
type Flow struct {
	store    *session.Store
	verifier Verifier
	messages Messages
	logger   *zerolog.Logger

	navigator Navigator
	confirmer Confirmer
	sender    CodeSender

	mu         sync.Mutex
	state      State
	phoneInput string
	pending    *PendingVerification
	errText    string
	sending    bool
	attemptID  uuid.UUID
	attempt    *session.Attempt
	closed     bool
}

// New creates a flow in the Idle state.
func New(
	store *session.Store,
	verifier Verifier,
	messages Messages,
	logger *zerolog.Logger,
	opts ...Option,
) *Flow {
	f := &Flow{
		store:    store,
		verifier: verifier,
		messages: messages,
		logger:   logger,
		state:    Idle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// View returns the current screen state.
func (f *Flow) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{State: f.state, PhoneInput: f.phoneInput, Error: f.errText}
	if f.pending != nil {
		p := *f.pending
		v.Pending = &p
	}
	return v
}

// SetPhone records the phone field's raw input and clears any shown error.
func (f *Flow) SetPhone(raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFlowClosed
	}
	if f.state != Idle && f.state != PhoneEntered {
		return ErrWrongStep
	}

	f.phoneInput = raw
	f.errText = ""
	f.state = PhoneEntered
	return nil
}

// RequestOTP validates the phone input and moves to the OTP screen. No network call is made for
// invalid input.
func (f *Flow) RequestOTP(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	if f.state != Idle && f.state != PhoneEntered {
		f.mu.Unlock()
		return ErrWrongStep
	}
	if f.sending {
		f.mu.Unlock()
		return ErrRequestInFlight
	}

	digits := f.phoneInput
	if !ValidPhone(digits) {
		verr := f.invalidLocked("phone", language.MsgInvalidPhone)
		f.mu.Unlock()
		return verr
	}

	pending := &PendingVerification{RawPhoneDigits: digits, CountryCode: CountryCode}
	sender := f.sender
	f.sending = sender != nil
	f.mu.Unlock()

	if sender != nil {
		err := sender.SendCode(ctx, pending.Phone())

		f.mu.Lock()
		f.sending = false
		if f.closed {
			f.mu.Unlock()
			return ErrFlowClosed
		}
		if err != nil {
			f.errText = f.messages.Message(language.MsgCodeNotSent)
			f.mu.Unlock()
			f.logger.Warn().Err(err).Msg("failed to request otp delivery")
			return fmt.Errorf("send code: %w", err)
		}
		if f.phoneInput != digits || f.state != PhoneEntered {
			f.mu.Unlock()
			return ErrAttemptDiscarded
		}
	} else {
		f.mu.Lock()
	}

	f.pending = pending
	f.errText = ""
	f.state = OtpRequested
	f.mu.Unlock()

	if f.navigator != nil {
		f.navigator.Forward(navigation.RouteOTPVerify, navigation.Params{navigation.ParamPhone: digits})
	}
	return nil
}

// SetOTP records the code field's raw input. After a failed attempt this returns the flow to
// OtpRequested so the code can be resubmitted.
func (f *Flow) SetOTP(raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFlowClosed
	}
	switch f.state {
	case OtpRequested, Failed:
	case OtpSubmitted:
		return ErrVerificationInFlight
	default:
		return ErrWrongStep
	}

	f.pending.OTPDigits = raw
	f.errText = ""
	f.state = OtpRequested
	return nil
}

// Verify submits the pending code and blocks until the verification call returns. A verify while
// another is outstanding is ignored and reports ErrVerificationInFlight. If the attempt was
// abandoned before the call returned, its result is dropped and ErrAttemptDiscarded is returned.
func (f *Flow) Verify(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	switch f.state {
	case OtpRequested, Failed:
	case OtpSubmitted:
		f.mu.Unlock()
		f.logger.Debug().Msg("verification in progress, ignoring verify")
		return ErrVerificationInFlight
	default:
		f.mu.Unlock()
		return ErrWrongStep
	}

	otp := f.pending.OTPDigits
	if !ValidOTP(otp) {
		f.state = OtpRequested
		verr := f.invalidLocked("otp", language.MsgInvalidOTP)
		f.mu.Unlock()
		return verr
	}

	id := uuid.New()
	phone := f.pending.Phone()
	f.attemptID = id
	f.attempt = f.store.Begin()
	f.state = OtpSubmitted
	f.errText = ""
	f.mu.Unlock()

	log := f.logger.With().Str("attempt_id", id.String()).Logger()
	log.Debug().Msg("verifying otp")

	creds, err := f.verifier.Verify(ctx, phone, otp)

	f.mu.Lock()
	if f.closed || f.attemptID != id {
		f.mu.Unlock()
		log.Debug().Msg("discarding result of abandoned verification attempt")
		return ErrAttemptDiscarded
	}

	attempt := f.attempt
	f.attemptID = uuid.Nil
	f.attempt = nil

	if err != nil {
		attempt.Fail()
		verr := asVerificationError(err)
		f.state = Failed
		f.errText = verr.Message
		if f.errText == "" {
			f.errText = f.messages.Message(language.MsgVerificationFailed)
		}
		f.mu.Unlock()
		log.Info().Err(err).Msg("otp verification failed")
		return verr
	}

	if err := attempt.Succeed(creds); err != nil {
		f.state = Failed
		f.errText = f.messages.Message(language.MsgVerificationFailed)
		f.mu.Unlock()
		log.Warn().Err(err).Msg("verified credentials not applied")
		return err
	}

	f.state = Verified
	f.pending = nil
	f.mu.Unlock()
	log.Info().Str("user_id", creds.User.ID).Msg("otp verified")

	if f.confirmer != nil {
		f.confirmer.Confirm(creds.User)
	}
	return nil
}

// Back leaves the OTP screen. The pending verification is discarded and an outstanding
// verification call, if any, will have its result ignored.
func (f *Flow) Back() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFlowClosed
	}
	switch f.state {
	case OtpRequested, OtpSubmitted, Failed:
	default:
		f.mu.Unlock()
		return ErrWrongStep
	}

	f.abandonLocked()
	f.state = PhoneEntered
	f.errText = ""
	f.mu.Unlock()

	if f.navigator != nil {
		f.navigator.Back()
	}
	return nil
}

// Close abandons the flow. Every later call returns ErrFlowClosed.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.abandonLocked()
	f.closed = true
}

// abandonLocked drops the pending verification and releases the session's loading state held by
// an outstanding attempt.
func (f *Flow) abandonLocked() {
	if f.attempt != nil {
		f.logger.Debug().Str("attempt_id", f.attemptID.String()).Msg("abandoning verification attempt")
		f.attempt.Fail()
	}
	f.attempt = nil
	f.attemptID = uuid.Nil
	f.pending = nil
}

func (f *Flow) invalidLocked(field, key string) *ValidationError {
	msg := f.messages.Message(key)
	f.errText = msg
	return &ValidationError{Field: field, Message: msg}
}
