package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values by code and message so sentinel comparisons
// with errors.Is survive wrapping via WithCause.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// WithCause returns a copy of e carrying err as its cause.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Session and credential errors. These are resolved locally (clear state,
// redirect) and never surfaced raw to the caller's user.
var (
	ErrUserNotFound         = New(http.StatusUnauthorized, "user not found", nil)
	ErrIncorrectPassword    = New(http.StatusUnauthorized, "incorrect password", nil)
	ErrAccountNotRegistered = New(http.StatusUnauthorized, "account not registered", nil)
	ErrExpiredCredential    = New(http.StatusUnauthorized, "credential expired", nil)
	ErrUnauthorized         = New(http.StatusUnauthorized, "unauthorized", nil)
)

// Remote call errors, surfaced as user-visible messages by the caller.
var (
	ErrNetworkUnavailable = New(http.StatusServiceUnavailable, "network unavailable", nil)
	ErrRemoteRejected     = New(http.StatusBadGateway, "remote rejected request", nil)
)

// Checkout errors.
var (
	ErrPaymentNotVerified     = New(http.StatusPaymentRequired, "payment not verified", nil)
	ErrPartialCheckoutFailure = New(http.StatusAccepted, "order placed, cart clear failed", nil)
)

// Remote wraps a non-2xx upstream reply, keeping the status and body message
// for logging while comparing equal to ErrRemoteRejected.
func Remote(status int, body string) *Error {
	return ErrRemoteRejected.WithCause(fmt.Errorf("upstream error: status=%d body=%s", status, body))
}
