package services

import (
	"errors"
	"fmt"
)

// Kind is a machine-distinguishable rejection category, so clients can decide
// whether to re-fetch slots, fix their input, or show a permission error.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindSlotConflict      Kind = "slot_conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindNotFound          Kind = "not_found"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrKind extracts the rejection kind from an error chain. The second return
// is false for internal errors that carry no kind.
func ErrKind(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func IsKind(err error, kind Kind) bool {
	k, ok := ErrKind(err)
	return ok && k == kind
}
