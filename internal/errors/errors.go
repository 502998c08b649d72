// Package errors defines the typed error values shared by the recognition
// cascade and the translation resolver.
//
// Every failure that crosses a package boundary in the pipeline carries one of
// the codes below, so callers can distinguish "no credential configured" from
// "the remote service rejected the request" without parsing message strings.
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of pipeline failure.
type Code string

const (
	// CodeCredentialMissing means no API credential is configured for the
	// remote service that was about to be called.
	CodeCredentialMissing Code = "CREDENTIAL_MISSING"

	// CodeInvalidRequest means a request could not be constructed
	// (malformed URL, unencodable body).
	CodeInvalidRequest Code = "INVALID_REQUEST"

	// CodeTransport means the network call itself failed before a response
	// was decoded.
	CodeTransport Code = "TRANSPORT_ERROR"

	// CodeRemoteAPI means the remote service answered with a non-200 status
	// or an in-payload error field.
	CodeRemoteAPI Code = "REMOTE_API_ERROR"

	// CodeEmptyResult means the response decoded cleanly but carried no
	// usable payload.
	CodeEmptyResult Code = "EMPTY_RESULT"

	// CodeRecognitionFailed means every cascade stage was exhausted without
	// producing usable text or an informative result.
	CodeRecognitionFailed Code = "RECOGNITION_FAILED"
)

// Error is a pipeline failure with a machine-readable code, an optional
// remote status code, and an optional wrapped cause.
type Error struct {
	Code       Code
	Message    string
	StatusCode int // HTTP or in-payload status from the remote service, 0 if n/a
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// CodeOf returns the pipeline error code carried by err, or "" if err is not
// a pipeline error.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CredentialMissing reports that no credential is configured for service.
func CredentialMissing(service string) *Error {
	return &Error{
		Code:    CodeCredentialMissing,
		Message: fmt.Sprintf("%s API key not set", service),
	}
}

// InvalidRequest reports a request that could not be built.
func InvalidRequest(msg string, cause error) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg, Cause: cause}
}

// Transport reports a failed network call.
func Transport(service string, cause error) *Error {
	return &Error{
		Code:    CodeTransport,
		Message: fmt.Sprintf("%s request failed", service),
		Cause:   cause,
	}
}

// RemoteAPI reports an error answer from the remote service. The message is
// the remote-reported error text, preserved verbatim for display.
func RemoteAPI(service string, status int, msg string) *Error {
	return &Error{
		Code:       CodeRemoteAPI,
		Message:    fmt.Sprintf("%s error: %s", service, msg),
		StatusCode: status,
	}
}

// EmptyResult reports a decoded-but-blank response payload.
func EmptyResult(service string) *Error {
	return &Error{
		Code:    CodeEmptyResult,
		Message: fmt.Sprintf("empty response from %s", service),
	}
}

// RecognitionFailed reports that the whole cascade produced nothing. The last
// underlying error, if any, is kept as the cause.
func RecognitionFailed(cause error) *Error {
	return &Error{
		Code:    CodeRecognitionFailed,
		Message: "no recognition attempt produced text",
		Cause:   cause,
	}
}
