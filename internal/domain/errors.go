package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures so callers can map them to transport codes.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindConflict       ErrorKind = "conflict"
	KindReference      ErrorKind = "reference"
	KindNotFound       ErrorKind = "not_found"
	KindAuthorization  ErrorKind = "authorization"
	KindAuthentication ErrorKind = "authentication"
)

// Error is a classified domain error carrying a human readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any other *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	// ErrValidation indicates a field constraint was violated.
	ErrValidation = &Error{Kind: KindValidation, Message: "validation failed"}
	// ErrConflict indicates a uniqueness rule was violated.
	ErrConflict = &Error{Kind: KindConflict, Message: "conflict"}
	// ErrReference indicates a referenced entity does not exist.
	ErrReference = &Error{Kind: KindReference, Message: "referenced entity not found"}
	// ErrNotFound indicates the targeted entity does not exist.
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	// ErrForbidden indicates the identity lacks permission for the action.
	ErrForbidden = &Error{Kind: KindAuthorization, Message: "unauthorized action"}
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "invalid credentials"}
)

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Referencef(format string, args ...any) error {
	return &Error{Kind: KindReference, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of a domain error anywhere in err's chain, or "" for other errors.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
