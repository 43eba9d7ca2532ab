package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error by who has to act on it.
type Kind string

const (
	// KindValidation marks malformed or missing input. Caller bug.
	KindValidation Kind = "VALIDATION"
	// KindInvariant marks a broken state-machine or aggregate rule. Caller bug.
	KindInvariant Kind = "INVARIANT"
	// KindPolicy marks a rejection by an injected port. Expected business outcome.
	KindPolicy Kind = "POLICY"
)

// Error is a typed domain failure with a stable code for persistence and APIs.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidation(code, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewInvariant(code, format string, args ...any) *Error {
	return &Error{Kind: KindInvariant, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewPolicy(code, format string, args ...any) *Error {
	return &Error{Kind: KindPolicy, Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is (or wraps) a domain error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

func IsValidation(err error) bool { return IsKind(err, KindValidation) }
func IsInvariant(err error) bool  { return IsKind(err, KindInvariant) }
func IsPolicy(err error) bool     { return IsKind(err, KindPolicy) }

// CodeOf returns the domain error code, or "" for non-domain errors.
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
