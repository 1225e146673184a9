// Package errors provides the error taxonomy for the alimah chat client.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common cases
var (
	ErrEmptyInput          = errors.New("message is empty")
	ErrSendInFlight        = errors.New("a message is already being sent")
	ErrNoContent           = errors.New("no content in response")
	ErrInvalidResponse     = errors.New("invalid response format")
	ErrUnavailable         = errors.New("capability not available")
	ErrNoSpeech            = errors.New("no speech recognized")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// APIError represents a non-2xx answer from a remote endpoint
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// WithBody attaches a (truncated) response body for diagnostics
func (e *APIError) WithBody(body string) *APIError {
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody] + "..."
	}
	e.Body = body
	return e
}

// NetworkError represents a transport failure (DNS, connect, reset, timeout)
type NetworkError struct {
	Op       string
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s at %s: %v", e.Op, e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, endpoint string, err error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Err: err}
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse error at %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// InitError is a failure to set up the reply backend. It ends the session.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("Failed to initialize: %v", e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// NewInitError creates a new InitError
func NewInitError(err error) *InitError {
	return &InitError{Err: err}
}

// SendError is a failed reply round-trip. It is shown to the user as an alert.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send message: %v", e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// NewSendError creates a new SendError
func NewSendError(err error) *SendError {
	return &SendError{Err: err}
}

// TranslationError is a failed translation of a single message
type TranslationError struct {
	Source string
	Target string
	Err    error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation %s|%s failed: %v", e.Source, e.Target, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

// NewTranslationError creates a new TranslationError
func NewTranslationError(source, target string, err error) *TranslationError {
	return &TranslationError{Source: source, Target: target, Err: err}
}

// RecognitionError is a failed speech-to-text pass
type RecognitionError struct {
	Stage string
	Err   error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("speech recognition failed (%s): %v", e.Stage, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// NewRecognitionError creates a new RecognitionError
func NewRecognitionError(stage string, err error) *RecognitionError {
	return &RecognitionError{Stage: stage, Err: err}
}

// UnsupportedLanguageError reports a language code outside en/sw
type UnsupportedLanguageError struct {
	Value string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q (use en or sw)", e.Value)
}

// Is matches ErrUnsupportedLanguage
func (e *UnsupportedLanguageError) Is(target error) bool {
	return target == ErrUnsupportedLanguage
}

// NewUnsupportedLanguageError creates a new UnsupportedLanguageError
func NewUnsupportedLanguageError(value string) *UnsupportedLanguageError {
	return &UnsupportedLanguageError{Value: value}
}

// IsNetworkError reports whether err is a transport failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsTimeoutError reports whether err is a deadline or network timeout
func IsTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsInitError reports whether err is an initialization failure
func IsInitError(err error) bool {
	var initErr *InitError
	return errors.As(err, &initErr)
}

// IsSendError reports whether err is a failed reply round-trip
func IsSendError(err error) bool {
	var sendErr *SendError
	return errors.As(err, &sendErr)
}

// IsTranslationError reports whether err is a translation failure
func IsTranslationError(err error) bool {
	var trErr *TranslationError
	return errors.As(err, &trErr)
}

// GetHTTPStatus extracts the HTTP status code from err, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetEndpoint extracts the endpoint from err, or ""
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody extracts the response body excerpt from err, or ""
func GetResponseBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}
