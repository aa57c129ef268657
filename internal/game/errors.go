// internal/game/errors.go
//
// Typed engine errors.
//
// Every rejected operation returns an *Error carrying a Kind. The engine
// checks all preconditions before mutating, so a failed call leaves the
// state exactly as it was.

package game

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable engine error code.
type Kind string

const (
	KindInvalidState      Kind = "INVALID_STATE"
	KindRollLimitExceeded Kind = "ROLL_LIMIT_EXCEEDED"
	KindArityMismatch     Kind = "ARITY_MISMATCH"
	KindMissingValue      Kind = "MISSING_VALUE"
	KindIndexOutOfBounds  Kind = "INDEX_OUT_OF_BOUNDS"
	KindPrematureHold     Kind = "PREMATURE_HOLD"
	KindUnknownCategory   Kind = "UNKNOWN_CATEGORY"
	KindNotInteractive    Kind = "NOT_INTERACTIVE"
	KindAlreadyScored     Kind = "ALREADY_SCORED"
	KindIncompleteRoll    Kind = "INCOMPLETE_ROLL"
)

// Error is returned for every rejected engine operation. The engine state is
// unchanged when an Error is returned.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches any *Error with the same Kind, so errors.Is(err, ErrAlreadyScored)
// works regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidState      = &Error{Kind: KindInvalidState, Message: "game is already complete"}
	ErrRollLimitExceeded = &Error{Kind: KindRollLimitExceeded, Message: "no rolls left this round"}
	ErrArityMismatch     = &Error{Kind: KindArityMismatch, Message: "wrong number of dice values"}
	ErrMissingValue      = &Error{Kind: KindMissingValue, Message: "die is missing a value"}
	ErrIndexOutOfBounds  = &Error{Kind: KindIndexOutOfBounds, Message: "die index out of bounds"}
	ErrPrematureHold     = &Error{Kind: KindPrematureHold, Message: "cannot hold dice before the first roll"}
	ErrUnknownCategory   = &Error{Kind: KindUnknownCategory, Message: "unknown category"}
	ErrNotInteractive    = &Error{Kind: KindNotInteractive, Message: "category is not user-scoreable"}
	ErrAlreadyScored     = &Error{Kind: KindAlreadyScored, Message: "category already scored"}
	ErrIncompleteRoll    = &Error{Kind: KindIncompleteRoll, Message: "roll the dice before scoring"}
)

// KindOf returns the engine error kind carried by err, or "" if err is not
// an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
