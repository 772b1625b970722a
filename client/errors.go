package client

import (
	"errors"
	"fmt"
)

// Op names the user action a transport failure belongs to
type Op string

const (
	OpLoadLocations Op = "load locations"
	OpFetchForecast Op = "fetch forecast"
)

var (
	// ErrUnexpectedShape marks a response that does not match the requested mode
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrSuperseded is returned for a response overtaken by a newer submission
	ErrSuperseded = errors.New("superseded by a newer forecast request")
)

// ValidationError reports a missing selection or a bad form input.
// No network call is made when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TransportError reports a network, HTTP status or decoding failure
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message is the text shown to the user; it only says which operation failed
func (e *TransportError) Message() string {
	if e.Op == OpLoadLocations {
		return MsgLoadFailed
	}
	return MsgFetchFailed
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
