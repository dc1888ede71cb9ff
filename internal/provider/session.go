package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketArchiver/internal/model"
)

// Session is a single logical connection to the market-data provider. The
// provider is session-oriented and strictly single-session-per-process:
// callers must serialize all RequestBars calls.
type Session interface {
	// Connect establishes the logical session. A failure here is fatal to
	// the whole batch.
	Connect(ctx context.Context) error
	// RequestBars issues one bounded historical-data request. It returns a
	// classified *Error on failure and never blocks past its internal
	// timeout. An empty slice with a nil error means the provider had
	// nothing for the window.
	RequestBars(ctx context.Context, sym model.Symbol, chunk model.Chunk, barSize string) ([]model.Bar, error)
	// Disconnect releases the session. Idempotent.
	Disconnect()
	// Name identifies the adapter for logging.
	Name() string
}

// Class splits provider failures into the two behaviors the retry policy
// cares about.
type Class int

const (
	// Transient errors may succeed on retry: timeouts, session congestion,
	// momentary connectivity loss.
	Transient Class = iota
	// Terminal errors can never succeed as issued: unresolvable security,
	// missing entitlement, malformed request.
	Terminal
)

// Gateway error codes, mirroring the upstream session protocol.
const (
	CodeUnresolvableSecurity = 200
	CodeMalformedRequest     = 321
	CodeEntitlementDenied    = 354
	CodeServiceCongestion    = 162
	CodeConnectivityLost     = 1100
	// CodeTimeout is synthesized locally when a request exceeds its bound.
	CodeTimeout = -1
)

// Error is a classified provider failure.
type Error struct {
	Code    int
	Class   Class
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ClassifyCode maps a gateway error code to its retry class. Unknown codes
// are treated as terminal: retrying an unclassified failure burns the rate
// budget for the rest of the batch.
func ClassifyCode(code int) Class {
	switch code {
	case CodeServiceCongestion, CodeConnectivityLost, CodeTimeout:
		return Transient
	default:
		return Terminal
	}
}

// NewError builds a classified error from a gateway code.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Class: ClassifyCode(code), Message: message}
}

// Timeout builds the transient error used when a request hit its local bound.
func Timeout(bound time.Duration) *Error {
	return &Error{Code: CodeTimeout, Class: Transient, Message: "request timeout after " + bound.String()}
}

// IsTransient reports whether err is a provider error that may succeed on
// retry. Anything that is not a classified provider error is not retried.
func IsTransient(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Class == Transient
}

// IsTerminal reports whether err is a classified terminal provider error.
func IsTerminal(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Class == Terminal
}

// Reason renders a short human-readable failure reason for reports.
func Reason(err error) string {
	var pe *Error
	if !errors.As(err, &pe) {
		return err.Error()
	}
	switch pe.Code {
	case CodeUnresolvableSecurity:
		return "unresolvable security"
	case CodeEntitlementDenied:
		return "no market-data entitlement"
	case CodeMalformedRequest:
		return "malformed request"
	case CodeTimeout:
		return "request timeout"
	default:
		return pe.Message
	}
}
