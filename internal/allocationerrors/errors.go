package allocationerrors

import (
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrStallHasOpenSession = errors.New("stall already has a non-terminal session")
	ErrNoBids              = errors.New("no bids found for session")
	ErrNoWinner            = errors.New("winner not selected yet")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrStallNotFound       = errors.New("stall not found")
)

// ErrInvalidRequest is a validation failure detected before touching shared state
var ErrInvalidRequest = errors.New("invalid request")

// Admission rejections. These are domain outcomes, always returned wrapped in an AdmissionError.
var (
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrSessionNotOpen    = errors.New("session not open")
	ErrSessionExpired    = errors.New("session expired")
	ErrAlreadyRegistered = errors.New("applicant already registered")
	ErrBranchCapExceeded = errors.New("branch registration cap exceeded")
	ErrSessionFull       = errors.New("session participant limit reached")
	ErrNotRegistered     = errors.New("bidder not registered for session")
	ErrNotParticipant    = errors.New("applicant not registered for session")
)

// Lifecycle errors
var (
	ErrInvalidTransition      = errors.New("invalid session state transition")
	ErrExtensionNotAllowed    = errors.New("extension only allowed while session is open")
	ErrExtensionLimitExceeded = errors.New("maximum total extension exceeded")
)

// System faults
var (
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrSchedulerFault      = errors.New("scheduler fault")
)

// Reason is the machine-readable code reported with every rejection
type Reason string

const (
	ReasonBidTooLow         Reason = "BidTooLow"
	ReasonSessionNotOpen    Reason = "SessionNotOpen"
	ReasonSessionExpired    Reason = "SessionExpired"
	ReasonAlreadyRegistered Reason = "AlreadyRegistered"
	ReasonBranchCapExceeded Reason = "BranchCapExceeded"
	ReasonSessionFull       Reason = "SessionFull"
	ReasonNotRegistered     Reason = "NotRegistered"
	ReasonNotParticipant    Reason = "NotParticipant"
)

var reasons = map[error]Reason{
	ErrBidTooLow:         ReasonBidTooLow,
	ErrSessionNotOpen:    ReasonSessionNotOpen,
	ErrSessionExpired:    ReasonSessionExpired,
	ErrAlreadyRegistered: ReasonAlreadyRegistered,
	ErrBranchCapExceeded: ReasonBranchCapExceeded,
	ErrSessionFull:       ReasonSessionFull,
	ErrNotRegistered:     ReasonNotRegistered,
	ErrNotParticipant:    ReasonNotParticipant,
}

// AdmissionError reports why the admission gate rejected a submission
type AdmissionError struct {
	Reason Reason
	Detail string
	Err    error
}

func (e *AdmissionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("admission rejected (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("admission rejected (%s): %v - %s", e.Reason, e.Err, e.Detail)
}

func (e *AdmissionError) Unwrap() error {
	return e.Err
}

// Reject builds an AdmissionError for one of the admission sentinels
func Reject(sentinel error, format string, args ...any) *AdmissionError {
	reason, ok := reasons[sentinel]
	if !ok {
		reason = Reason("Rejected")
	}
	return &AdmissionError{
		Reason: reason,
		Detail: fmt.Sprintf(format, args...),
		Err:    sentinel,
	}
}

// Invalid wraps ErrInvalidRequest with a description of the bad field
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w - %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// ReasonOf returns the rejection reason carried by err, if any
func ReasonOf(err error) (Reason, bool) {
	var ae *AdmissionError
	if errors.As(err, &ae) {
		return ae.Reason, true
	}
	return "", false
}

// IsAdmissionRejected reports whether err is a domain rejection rather than a fault
func IsAdmissionRejected(err error) bool {
	_, ok := ReasonOf(err)
	return ok
}
