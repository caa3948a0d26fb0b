package otpflow

import (
	"errors"
	"fmt"
)

var (
	// ErrVerificationInFlight is returned by a verify issued while another is outstanding.
	ErrVerificationInFlight = errors.New("verification already in progress")
	// ErrRequestInFlight is returned by an OTP request issued while code delivery is outstanding.
	ErrRequestInFlight      = errors.New("otp request already in progress")
	// ErrAttemptDiscarded reports a result that arrived after its attempt was abandoned.
	ErrAttemptDiscarded     = errors.New("verification attempt discarded")
	// ErrFlowClosed is returned by every call after Close.
	ErrFlowClosed           = errors.New("verification flow closed")
	// ErrWrongStep is returned for an action the current step does not allow.
	ErrWrongStep            = errors.New("action not allowed at the current step")
)

// ValidationError reports malformed phone or OTP input. Message is the localized inline text.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// VerificationError is returned by a Verifier when the code was not accepted.
// Message, when set, is shown to the user as is.
type VerificationError struct {
	Message string
	Err     error
}

func (e *VerificationError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("verification failed: %s: %v", e.Message, e.Err)
	case e.Message != "":
		return "verification failed: " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("verification failed: %v", e.Err)
	default:
		return "verification failed"
	}
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func asVerificationError(err error) *VerificationError {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr
	}
	return &VerificationError{Err: err}
}
