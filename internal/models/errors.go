package models

import (
	"errors"
	"fmt"
)

// ErrNoPlatforms is reported by the aggregator when the handle map has
// no configured platform at all.
var ErrNoPlatforms = errors.New("no platforms configured")

// ValidationError reports bad user input to the identity store.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FetchErrorKind classifies adapter failures.
type FetchErrorKind string

const (
	FetchNotFound          FetchErrorKind = "not_found"
	FetchTransport         FetchErrorKind = "transport"
	FetchMalformedResponse FetchErrorKind = "malformed_response"
)

// FetchError is a per-platform adapter failure. One failed call is one
// failed result; adapters never retry.
type FetchError struct {
	Platform Platform
	Kind     FetchErrorKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Platform, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func NewNotFoundError(p Platform, msg string) *FetchError {
	return &FetchError{Platform: p, Kind: FetchNotFound, Err: errors.New(msg)}
}

func NewTransportError(p Platform, err error) *FetchError {
	return &FetchError{Platform: p, Kind: FetchTransport, Err: err}
}

func NewMalformedError(p Platform, msg string) *FetchError {
	return &FetchError{Platform: p, Kind: FetchMalformedResponse, Err: errors.New(msg)}
}

// FetchKind extracts the failure class from an error chain, or "" when
// the error is not a FetchError.
func FetchKind(err error) FetchErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}
