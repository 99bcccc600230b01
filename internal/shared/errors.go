package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")
	ErrUntrustedURL     = fmt.Errorf("untrusted redirect url")

	// Transport errors
	ErrNetwork    = fmt.Errorf("network failure")
	ErrHTTPStatus = fmt.Errorf("unexpected http status")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ErrorKind names the failure class of an operation error for diagnostic reports.
type ErrorKind int

const (
	UnknownFailure ErrorKind = iota
	NetworkFailure
	HTTPStatusFailure
	ValidationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network"
	case HTTPStatusFailure:
		return "http_status"
	case ValidationFailure:
		return "validation"
	default:
		return "unknown"
	}
}

// Classify maps an error onto its [ErrorKind].
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return UnknownFailure
	case errors.Is(err, ErrValidation):
		return ValidationFailure
	case errors.Is(err, ErrHTTPStatus):
		return HTTPStatusFailure
	case errors.Is(err, ErrNetwork):
		return NetworkFailure
	default:
		return UnknownFailure
	}
}
