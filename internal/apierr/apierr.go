// Package apierr defines the error kinds shared by the provider clients and
// the tool dispatcher. Every typed error matches exactly one sentinel through
// errors.Is so callers can classify without string matching.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfiguration    = errors.New("configuration error")
	ErrValidation       = errors.New("invalid argument")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrRateLimited      = errors.New("rate limited")
	ErrRemote           = errors.New("remote error")
	ErrTransport        = errors.New("transport error")
	ErrUnknownOperation = errors.New("unknown tool")
	ErrUnknownResource  = errors.New("unknown resource")
)

// ConfigError reports a required setting that is absent.
type ConfigError struct {
	Var string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s environment variable is required", e.Var)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// MissingConfig returns a ConfigError for the named environment variable.
func MissingConfig(name string) error {
	return &ConfigError{Var: name}
}

// ValidationError reports a missing or malformed tool argument.
type ValidationError struct {
	Arg    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Arg, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MissingArgument is returned when a required tool argument is absent.
func MissingArgument(name string) error {
	return &ValidationError{Arg: name, Reason: "is required"}
}

// InvalidArgument is returned when an argument is present but unusable.
func InvalidArgument(name, reason string) error {
	return &ValidationError{Arg: name, Reason: reason}
}

// StatusError is a non-2xx response from a remote API.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	switch e.Status {
	case http.StatusUnauthorized:
		return "invalid credentials or unauthorized access"
	case http.StatusForbidden:
		return "access forbidden - check permissions"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	default:
		return fmt.Sprintf("API request failed: %d %s", e.Status, e.Body)
	}
}

// Is maps the status code onto its error kind.
func (e *StatusError) Is(target error) bool {
	return target == KindOf(e.Status)
}

// KindOf returns the sentinel for an HTTP status code. Codes without a
// dedicated kind map to ErrRemote.
func KindOf(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrRemote
	}
}

// TransportError wraps a connection, timeout or body read failure.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// UnknownOperation is returned for a tool name with no registered handler.
func UnknownOperation(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownOperation, name)
}

// UnknownResource is returned for a resource URI with no registered reader.
func UnknownResource(uri string) error {
	return fmt.Errorf("%w: %s", ErrUnknownResource, uri)
}

// IsAuth reports whether err is a 401 or 403 from the remote API.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
