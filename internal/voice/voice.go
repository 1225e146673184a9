// Package voice provides speech output and speech recognition for the chat client.
//
// Both capabilities are optional. When an engine is missing the caller falls back
// to Noop, which keeps the rest of the client working without audio.
package voice

import (
	"context"
	"strings"

	apierrors "github.com/diogo/alimah/internal/errors"
)

// Synthesizer speaks text aloud in the given locale (e.g. "en-US", "sw-KE")
type Synthesizer interface {
	Speak(ctx context.Context, text, locale string) error
	Available() bool
}

// Recognizer captures a single utterance and returns its transcript
type Recognizer interface {
	Recognize(ctx context.Context, locale string) (string, error)
	Available() bool
}

// Noop implements Synthesizer and Recognizer without doing anything
type Noop struct{}

// Speak does nothing
func (Noop) Speak(context.Context, string, string) error { return nil }

// Recognize always reports the capability as unavailable
func (Noop) Recognize(context.Context, string) (string, error) {
	return "", apierrors.ErrUnavailable
}

// Available reports false
func (Noop) Available() bool { return false }

// SynthesizerOrNoop returns s when it can speak, Noop otherwise
func SynthesizerOrNoop(s Synthesizer) Synthesizer {
	if s == nil || !s.Available() {
		return Noop{}
	}
	return s
}

// RecognizerOrNoop returns r when it can listen, Noop otherwise
func RecognizerOrNoop(r Recognizer) Recognizer {
	if r == nil || !r.Available() {
		return Noop{}
	}
	return r
}

// languageOf returns the language part of a locale ("sw-KE" -> "sw")
func languageOf(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	lang, _, _ = strings.Cut(lang, "_")
	return strings.ToLower(lang)
}
