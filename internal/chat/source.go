// Package chat drives a conversation: it records messages, asks a reply source
// for answers, and keeps every message in the selected language.
package chat

import (
	"context"

	"github.com/diogo/alimah/internal/models"
)

// ReplySource produces the assistant's answer to a user message
type ReplySource interface {
	Reply(ctx context.Context, text string) (string, error)
}

// Initializer is implemented by sources that need a connection check before the first message
type Initializer interface {
	Init(ctx context.Context) error
}

// Translator converts text between supported languages
type Translator interface {
	Translate(ctx context.Context, text string, src, dst models.Language) (string, error)
}

// ReplyFunc adapts a function to ReplySource
type ReplyFunc func(ctx context.Context, text string) (string, error)

// Reply calls f
func (f ReplyFunc) Reply(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}
