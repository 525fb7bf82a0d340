package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the kinds of failure a crawl can run into
type ErrorType string

const (
	// ErrorTypeSetup covers browser launch, connection and navigation failures.
	// A setup error aborts the run.
	ErrorTypeSetup   ErrorType = "setup"
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeStatus  ErrorType = "status"
	ErrorTypeStorage ErrorType = "storage"
)

// Error carries the failure kind plus enough context to log it
type Error struct {
	Type ErrorType
	Op   string
	URL  string
	Code int
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Code != 0 {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s for %s", msg, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error wrapping err
func New(t ErrorType, op string, err error) *Error {
	return &Error{Type: t, Op: op, Err: err}
}

// Setup wraps a browser or navigation failure
func Setup(op string, err error) *Error {
	return New(ErrorTypeSetup, op, err)
}

// Network wraps a transport failure for url
func Network(url string, err error) *Error {
	return &Error{Type: ErrorTypeNetwork, Op: "fetch", URL: url, Err: err}
}

// Status reports a non-200 response for url
func Status(url string, code int) *Error {
	return &Error{Type: ErrorTypeStatus, Op: "fetch", URL: url, Code: code}
}

// Storage wraps a filesystem failure
func Storage(op string, err error) *Error {
	return New(ErrorTypeStorage, op, err)
}

// TypeOf returns the ErrorType of the first *Error in err's chain, or "" if none
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

func IsSetup(err error) bool   { return TypeOf(err) == ErrorTypeSetup }
func IsNetwork(err error) bool { return TypeOf(err) == ErrorTypeNetwork }
func IsStatus(err error) bool  { return TypeOf(err) == ErrorTypeStatus }
func IsStorage(err error) bool { return TypeOf(err) == ErrorTypeStorage }

// IsItemFailure reports whether err only affects a single download.
// Such failures are logged and skipped rather than aborting the run.
func IsItemFailure(err error) bool {
	switch TypeOf(err) {
	case ErrorTypeNetwork, ErrorTypeStatus, ErrorTypeStorage:
		return true
	default:
		return false
	}
}
