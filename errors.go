package main

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of transport failures a view can see.
type ErrorKind int

const (
	// KindServer means the API answered with a non-2xx status.
	KindServer ErrorKind = iota + 1
	// KindUnreachable means the request went out but no response came back.
	KindUnreachable
	// KindMalformed means the request could not be built or the response
	// could not be decoded.
	KindMalformed
)

func (k ErrorKind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindUnreachable:
		return "unreachable"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

const (
	msgServerError = "Server error"
	msgUnreachable = "Network error - Backend not available"
	msgRequestErr  = "Request error"
)

// APIError is what every failed PostsClient call returns. Message is safe to
// show to the user as-is.
type APIError struct {
	Op      string
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func serverError(op string, status int, message string) *APIError {
	if message == "" {
		message = msgServerError
	}
	return &APIError{Op: op, Kind: KindServer, Status: status, Message: message}
}

func unreachableError(op string, err error) *APIError {
	return &APIError{Op: op, Kind: KindUnreachable, Message: msgUnreachable, Err: err}
}

func malformedError(op string, err error) *APIError {
	return &APIError{Op: op, Kind: KindMalformed, Message: msgRequestErr, Err: err}
}

// errorMessage returns the display message carried by err, or fallback when
// err carries none.
func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
