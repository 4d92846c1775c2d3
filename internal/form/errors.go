package form

import (
	"errors"
	"fmt"
)

// Error codes surfaced to the guest-facing client
const (
	CodeMissingGuestName           = "MissingGuestName"
	CodeMissingAttendanceAnswer    = "MissingAttendanceAnswer"
	CodeMissingEventChoice         = "MissingEventChoice"
	CodeSubmissionTransportFailure = "SubmissionTransportFailure"
)

var (
	ErrMissingGuestName        = errors.New("missing guest name")
	ErrMissingAttendanceAnswer = errors.New("missing attendance answer")
	ErrMissingEventChoice      = errors.New("missing event choice")
	ErrSubmissionTransport     = errors.New("submission transport failure")

	ErrInviteRequired      = errors.New("no valid invite code")
	ErrTierLocked          = errors.New("invite code already accepted")
	ErrGuestLimitReached   = errors.New("guest limit reached")
	ErrLastGuest           = errors.New("cannot remove the last guest")
	ErrGuestIndex          = errors.New("guest index out of range")
	ErrSongLimitReached    = errors.New("song limit reached")
	ErrSongAlreadySelected = errors.New("song already selected")
	ErrEventNotAvailable   = errors.New("event not available for this invite")
	ErrNotAttending        = errors.New("guest is not attending")
	ErrAlreadySubmitted    = errors.New("rsvp already submitted")
)

// ValidationError is a local, recoverable rejection of a draft
type ValidationError struct {
	Code    string
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func missingGuestName() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingGuestName,
		Message: "Vul alsjeblieft je naam in.",
		err:     ErrMissingGuestName,
	}
}

func missingAttendance() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingAttendanceAnswer,
		Message: "Laat ons weten of je erbij bent.",
		err:     ErrMissingAttendanceAnswer,
	}
}

func missingEventChoice() *ValidationError {
	return &ValidationError{
		Code:    CodeMissingEventChoice,
		Message: "Kies op welk onderdeel je aanwezig bent.",
		err:     ErrMissingEventChoice,
	}
}

// SubmissionError reports a failed delivery. Delivered counts the records
// that reached the sink before the failure; the batch is still unconfirmed
// and safe to resubmit.
type SubmissionError struct {
	Delivered int
	Total     int
	Err       error
}

func (e *SubmissionError) Error() string {
	if e.Partial() {
		return fmt.Sprintf("partial submission (%d of %d delivered): %v", e.Delivered, e.Total, e.Err)
	}
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() []error {
	return []error{ErrSubmissionTransport, e.Err}
}

// Partial reports whether some records were delivered before the failure
func (e *SubmissionError) Partial() bool {
	return e.Delivered > 0
}

// Message is the guest-facing retry text
func (e *SubmissionError) Message() string {
	if e.Partial() {
		return "Niet alle gasten zijn doorgekomen. Verstuur het formulier opnieuw."
	}
	return "Er ging iets mis. Probeer het opnieuw."
}
