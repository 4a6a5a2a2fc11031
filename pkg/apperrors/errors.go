package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the request layer can map it to a response
// status without inspecting message strings.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindPermissionDenied
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPermissionDenied:
		return "permission_denied"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind, a user-facing message and an optional wrapped cause.
type Error struct {
	Kind    Kind
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

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func PermissionDenied(message string) error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the kind from err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message, hiding internal causes.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
