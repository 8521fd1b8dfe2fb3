// Package apperr holds the typed failures returned by league operations.
// Every failure carries a stable Kind and a human readable message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindDuplicate    Kind = "duplicate"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

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

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrDuplicateEmail    = &Error{Kind: KindDuplicate, Message: "an account with this email already exists"}
	ErrNotApproved       = &Error{Kind: KindForbidden, Message: "account is not approved"}
	ErrBadCredentials    = &Error{Kind: KindUnauthorized, Message: "invalid email or password"}
	ErrAlreadyCompleted  = &Error{Kind: KindConflict, Message: "phase 2 registration already completed"}
	ErrInvalidToken      = &Error{Kind: KindUnauthorized, Message: "invalid or expired token"}
	ErrResultApproved    = &Error{Kind: KindConflict, Message: "result is approved; unapprove it before editing"}
	ErrMembershipDecided = &Error{Kind: KindConflict, Message: "player already belongs to another team"}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newError(KindValidation, format, args...)
}

func Duplicate(format string, args ...any) *Error {
	return newError(KindDuplicate, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(KindForbidden, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newError(KindUnauthorized, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

// Internal wraps an unexpected storage or runtime failure.
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf reports the kind of err. Untyped errors are internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return KindDuplicate
	}
	return KindInternal
}

// Is reports whether err is an application error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user facing message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "record already exists"
	}
	return "An unexpected error occurred on the server"
}

// FromDuplicate converts a unique constraint violation into a typed duplicate
// error carrying msg, leaving every other error untouched.
func FromDuplicate(err error, msg string) error {
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return &Error{Kind: KindDuplicate, Message: msg, Err: err}
	}
	return err
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDuplicate, KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
