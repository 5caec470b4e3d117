// Package apperr defines the error taxonomy shared by services, middleware
// and handlers. Every failure that reaches the transport layer is classified
// as one of these kinds; unclassified errors are treated as Unexpected.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindConflict
	KindInvalidCredentials
	KindInvalidRefreshToken
	KindRefreshExpired
	KindAuthRequired
	KindTokenExpired
	KindTokenMalformed
	KindCorruptCredential
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidRefreshToken:
		return "invalid_refresh_token"
	case KindRefreshExpired:
		return "refresh_expired"
	case KindAuthRequired:
		return "auth_required"
	case KindTokenExpired:
		return "token_expired"
	case KindTokenMalformed:
		return "token_malformed"
	case KindCorruptCredential:
		return "corrupt_credential"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unexpected"
	}
}

// HTTPStatus maps a kind to its response status class. Authentication
// failures are deliberately collapsed into 401 so the response does not
// reveal which check failed; the kind stays distinguishable in logs.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindInvalidCredentials, KindInvalidRefreshToken, KindRefreshExpired,
		KindAuthRequired, KindTokenExpired, KindTokenMalformed:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, or KindUnexpected when the
// error was never classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// Message returns the caller-safe message for an error chain. Unclassified
// errors get a generic message so internals never leak to the client.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error."
}
