package owm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind is the failure taxonomy shared by every client operation
type ErrorKind string

const (
	KindMissingCredential  ErrorKind = "missing-credential"
	KindInputInvalid       ErrorKind = "input-invalid"
	KindLocationNotFound   ErrorKind = "location-not-found"
	KindRateLimited        ErrorKind = "rate-limited"
	KindNetworkUnavailable ErrorKind = "network-unavailable"
	KindUnclassified       ErrorKind = "unclassified"
)

var defaultMessages = map[ErrorKind]string{
	KindMissingCredential:  "API key is not configured",
	KindInputInvalid:       "City name is required",
	KindLocationNotFound:   "Location not found",
	KindRateLimited:        "Too many requests",
	KindNetworkUnavailable: "Weather service is unreachable",
	KindUnclassified:       "Failed to fetch weather data",
}

var userMessages = map[ErrorKind]string{
	KindMissingCredential:  "API configuration error. Please contact support.",
	KindInputInvalid:       "Please enter a city name.",
	KindLocationNotFound:   "City not found. Please check the spelling and try again.",
	KindRateLimited:        "Too many requests. Please wait a moment and try again.",
	KindNetworkUnavailable: "Network error. Please check your connection and try again.",
	KindUnclassified:       "An unexpected error occurred. Please try again.",
}

// ClassifiedError is the typed failure produced where a response or transport
// failure is first observed. It is never mutated after creation.
type ClassifiedError struct {
	Kind       ErrorKind
	Message    string
	Retryable  bool
	StatusCode int    // 0 when no HTTP response was received
	Detail     string // upstream error message, if the body carried one
	cause      error
}

func (e *ClassifiedError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, status %d)", msg, e.Kind, e.StatusCode)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s (%s): %v", msg, e.Kind, e.cause)
	}
	return fmt.Sprintf("%s (%s)", msg, e.Kind)
}

// Unwrap exposes the transport cause, if any
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, retryable bool) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Message: defaultMessages[kind], Retryable: retryable}
}

// upstreamError is the error body returned by the weather API
type upstreamError struct {
	Code    json.RawMessage `json:"cod"`
	Message string          `json:"message"`
}

// Classify maps a non-2xx HTTP status and its optional body to a ClassifiedError.
// It returns nil for 2xx statuses.
func Classify(status int, payload []byte) *ClassifiedError {
	if status >= 200 && status <= 299 {
		return nil
	}

	var e *ClassifiedError
	switch {
	case status == http.StatusNotFound:
		e = newError(KindLocationNotFound, false)
	case status == http.StatusUnauthorized:
		e = newError(KindMissingCredential, false)
	case status == http.StatusTooManyRequests:
		e = newError(KindRateLimited, true)
	case status >= 500:
		e = newError(KindNetworkUnavailable, true)
	default:
		e = newError(KindUnclassified, false)
	}
	e.StatusCode = status

	var body upstreamError
	if len(payload) > 0 && json.Unmarshal(payload, &body) == nil {
		e.Detail = body.Message
	}
	return e
}

// ClassifyTransport wraps a failure where no HTTP response was received
func ClassifyTransport(err error) *ClassifiedError {
	e := newError(KindNetworkUnavailable, true)
	e.cause = err
	return e
}

// ErrMissingCredential is returned before any request when no API key is configured
func ErrMissingCredential() *ClassifiedError {
	return newError(KindMissingCredential, false)
}

// ErrInputInvalid is returned before any request when the city name is blank
func ErrInputInvalid() *ClassifiedError {
	return newError(KindInputInvalid, false)
}

// errMalformedResponse is returned when a 2xx body cannot be decoded
func errMalformedResponse(err error) *ClassifiedError {
	e := newError(KindUnclassified, false)
	e.Message = "Unexpected response from weather service"
	e.cause = err
	return e
}

// AsClassified extracts a ClassifiedError from err
func AsClassified(err error) (*ClassifiedError, bool) {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRetryable reports whether err is a ClassifiedError marked retryable
func IsRetryable(err error) bool {
	ce, ok := AsClassified(err)
	return ok && ce.Retryable
}

// KindOf returns the kind of err, KindUnclassified for anything else
func KindOf(err error) ErrorKind {
	if ce, ok := AsClassified(err); ok {
		return ce.Kind
	}
	return KindUnclassified
}

// IsKind reports whether err is a ClassifiedError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	ce, ok := AsClassified(err)
	return ok && ce.Kind == kind
}

// UserMessage returns the text shown to the user. It depends only on the kind,
// never on how many retries were spent.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if ce, ok := AsClassified(err); ok {
		if msg, ok := userMessages[ce.Kind]; ok {
			return msg
		}
	}
	return "An unexpected error occurred. Please try again."
}
