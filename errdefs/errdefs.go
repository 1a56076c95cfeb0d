// Package errdefs defines the error conditions the variant server can report
// and how they map to HTTP responses.
package errdefs

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound covers unknown assets, unknown representations and catalog
	// entries whose bytes no longer exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCodec is returned when a codec is not part of an asset's variant set.
	ErrInvalidCodec = errors.New("invalid codec")
	// ErrUnknownCodec is returned when a codec is outside the known universe.
	ErrUnknownCodec = errors.New("unknown codec")
	// ErrMalformedRange is returned for unparsable or unsatisfiable Range headers.
	ErrMalformedRange = errors.New("malformed range")
	// ErrNoVariantsAvailable means the resolver was handed an empty variant set.
	ErrNoVariantsAvailable = errors.New("no variants available")
	// ErrIOFailure wraps storage errors for handles the catalog claims exist.
	ErrIOFailure = errors.New("io failure")
	// ErrUnauthorized is returned for missing, expired or forged stream tickets.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrBadRequest covers request bodies that cannot be decoded.
	ErrBadRequest = errors.New("bad request")
)

// Error is an error that knows which HTTP status it should produce.
type Error interface {
	error
	Status() int
	Kind() string
}

// StatusError is the concrete Error returned by Classify.
type StatusError struct {
	Err  error
	Code int
	kind string
}

func (se StatusError) Error() string {
	return se.Err.Error()
}

// Status returns the HTTP status code.
func (se StatusError) Status() int {
	return se.Code
}

// Kind names the error condition, e.g. "InvalidCodec".
func (se StatusError) Kind() string {
	return se.kind
}

func (se StatusError) Unwrap() error {
	return se.Err
}

var classes = []struct {
	sentinel error
	code     int
	kind     string
}{
	{ErrNotFound, http.StatusNotFound, "NotFound"},
	{ErrInvalidCodec, http.StatusBadRequest, "InvalidCodec"},
	{ErrUnknownCodec, http.StatusBadRequest, "UnknownCodec"},
	{ErrMalformedRange, http.StatusRequestedRangeNotSatisfiable, "MalformedRange"},
	{ErrNoVariantsAvailable, http.StatusInternalServerError, "NoVariantsAvailable"},
	{ErrIOFailure, http.StatusInternalServerError, "IOFailure"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrBadRequest, http.StatusBadRequest, "BadRequest"},
}

// Classify maps err onto a StatusError. Errors that match no sentinel become
// 500s of kind "Internal".
func Classify(err error) StatusError {
	if se, ok := err.(StatusError); ok {
		return se
	}
	for _, c := range classes {
		if errors.Is(err, c.sentinel) {
			return StatusError{Err: err, Code: c.code, kind: c.kind}
		}
	}
	return StatusError{Err: err, Code: http.StatusInternalServerError, kind: "Internal"}
}

// Status is shorthand for Classify(err).Status().
func Status(err error) int {
	return Classify(err).Status()
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
