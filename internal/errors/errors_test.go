package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test-endpoint", "test API error")

	expected := "API error [400] at test-endpoint: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "test-endpoint", "boom")
	if noStatus.Error() != "API error at test-endpoint: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestAPIError_WithBody(t *testing.T) {
	long := strings.Repeat("x", 600)
	err := NewAPIError(502, "backend", "bad gateway").WithBody(long)

	if len(err.Body) != 515 {
		t.Errorf("Body length = %d, want 515", len(err.Body))
	}
	if !strings.HasSuffix(err.Body, "...") {
		t.Error("truncated body should end with ...")
	}
	if GetResponseBody(fmt.Errorf("wrapped: %w", err)) != err.Body {
		t.Error("GetResponseBody should see through wrapping")
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("send message", "http://localhost:4943", cause)

	if !errors.Is(err, cause) {
		t.Error("NetworkError should unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("outer: %w", err)) {
		t.Error("IsNetworkError should see through wrapping")
	}
	if GetEndpoint(err) != "http://localhost:4943" {
		t.Errorf("GetEndpoint() = %s", GetEndpoint(err))
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("missing field", "responseData.translatedText")

	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("ParseError should match ErrInvalidResponse")
	}
	if !strings.Contains(err.Error(), "responseData.translatedText") {
		t.Errorf("Error() should mention the path, got %s", err.Error())
	}

	plain := NewParseError("bad json", "")
	if plain.Error() != "parse error: bad json" {
		t.Errorf("Error() = %s", plain.Error())
	}
}

func TestInitError(t *testing.T) {
	err := NewInitError(errors.New("dial tcp: refused"))

	if err.Error() != "Failed to initialize: dial tcp: refused" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !IsInitError(fmt.Errorf("chat: %w", err)) {
		t.Error("IsInitError should see through wrapping")
	}
}

func TestSendError(t *testing.T) {
	apiErr := NewAPIError(500, "backend", "internal")
	err := NewSendError(apiErr)

	if !IsSendError(err) {
		t.Error("IsSendError should be true")
	}
	if GetHTTPStatus(err) != 500 {
		t.Errorf("GetHTTPStatus() = %d, want 500", GetHTTPStatus(err))
	}
}

func TestTranslationError(t *testing.T) {
	err := NewTranslationError("en", "sw", ErrNoContent)

	if !IsTranslationError(err) {
		t.Error("IsTranslationError should be true")
	}
	if !errors.Is(err, ErrNoContent) {
		t.Error("TranslationError should unwrap to its cause")
	}
	if err.Error() != "translation en|sw failed: no content in response" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestRecognitionError(t *testing.T) {
	err := NewRecognitionError("record", ErrUnavailable)

	if !errors.Is(err, ErrUnavailable) {
		t.Error("RecognitionError should unwrap to its cause")
	}
}

func TestUnsupportedLanguageError(t *testing.T) {
	err := NewUnsupportedLanguageError("fr")

	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Error("should match ErrUnsupportedLanguage")
	}
}

func TestIsTimeoutError(t *testing.T) {
	if !IsTimeoutError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)) {
		t.Error("deadline exceeded should be a timeout")
	}
	if IsTimeoutError(errors.New("other")) {
		t.Error("plain error should not be a timeout")
	}
}

func TestHelpers_NilAndPlain(t *testing.T) {
	plain := errors.New("plain")

	if GetHTTPStatus(plain) != 0 {
		t.Error("GetHTTPStatus should be 0 for plain errors")
	}
	if GetEndpoint(plain) != "" {
		t.Error("GetEndpoint should be empty for plain errors")
	}
	if IsNetworkError(nil) || IsSendError(nil) || IsInitError(nil) {
		t.Error("helpers should be false for nil")
	}
}
