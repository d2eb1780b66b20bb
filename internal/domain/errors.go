package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures returned by services. The HTTP layer maps
// each kind to a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindDuplicateUsername
	KindDuplicateEmail
	KindInvalidCredentials
	KindUnauthorized
	KindNotFound
	KindValidation
	KindUpstream
)

func (k ErrorKind) String() string {
	switch k {
	case KindDuplicateUsername:
		return "DuplicateUsername"
	case KindDuplicateEmail:
		return "DuplicateEmail"
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindUpstream:
		return "Upstream"
	default:
		return "Internal"
	}
}

// Client-facing messages.
const (
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUsernameExists     = "Username already exists"
	MsgEmailExists        = "Email already exists"
	MsgInternal           = "Internal server error"
	MsgCardsNotFound      = "Cards not found"
)

// Error is the result type of a failed service operation. Message is safe to
// show to clients; Err carries the underlying cause for server-side logs.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status is the upstream HTTP status for KindUpstream.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewUnauthorized(cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgUnauthorized, Err: cause}
}

func NewInvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: MsgInvalidCredentials}
}

func NewDuplicateUsername() *Error {
	return &Error{Kind: KindDuplicateUsername, Message: MsgUsernameExists}
}

func NewDuplicateEmail() *Error {
	return &Error{Kind: KindDuplicateEmail, Message: MsgEmailExists}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewUpstream(status int, message string) *Error {
	return &Error{Kind: KindUpstream, Status: status, Message: message}
}

// NewInternal wraps an unexpected failure. The cause is never shown to clients.
func NewInternal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: cause}
}

// AsError returns the *Error in err's chain, converting anything else into an internal error.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewInternal(err)
}

// KindOf classifies err. Nil and foreign errors are KindInternal.
func KindOf(err error) ErrorKind {
	return AsError(err).Kind
}
