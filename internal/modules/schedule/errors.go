package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrScheduleConflict: the range overlaps an active booking on the
	// same room. Recoverable by picking a different slot.
	ErrScheduleConflict = errors.New("schedule conflict")
	// ErrRoomUnavailable: the room's administrative status blocks new
	// bookings regardless of the calendar.
	ErrRoomUnavailable = errors.New("room not available for booking")
	// ErrLockTimeout: the room's scheduling lock could not be acquired
	// within budget. Retryable with the same input.
	ErrLockTimeout = errors.New("schedule lock timeout")
	// ErrNotFound: unknown room or booking id.
	ErrNotFound = errors.New("not_found")
	// ErrForbidden: requester is neither the booking owner nor an admin.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidStatusTransition: booking status change not allowed from
	// the current status.
	ErrInvalidStatusTransition = errors.New("invalid_status_transition")
)

// ErrorKind tags a business-rule violation on a single field.
type ErrorKind string

const (
	KindMalformedRange        ErrorKind = "malformed_range"
	KindPastStart             ErrorKind = "past_start"
	KindDurationExceeded      ErrorKind = "duration_exceeded"
	KindOutsideOperatingHours ErrorKind = "outside_operating_hours"
	KindInvalidField          ErrorKind = "invalid_field"
)

type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ValidationError collects business-rule violations. It is an expected
// outcome, returned as a value, never a panic.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) add(field string, kind ErrorKind, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Kind: kind, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Has reports whether any collected violation carries the given kind.
func (e *ValidationError) Has(kind ErrorKind) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}
