package models

import (
	"strings"
	"time"

	apierrors "github.com/diogo/alimah/internal/errors"
)

// AssistantName is the display name of the assistant
const AssistantName = "Alimah"

// Sender identifies who authored a message
type Sender int

const (
	User Sender = iota
	Assistant
)

// String returns the wire form of the sender ("user" or "assistant")
func (s Sender) String() string {
	if s == Assistant {
		return "assistant"
	}
	return "user"
}

// Label returns the name shown above a message bubble
func (s Sender) Label() string {
	if s == Assistant {
		return AssistantName
	}
	return "You"
}

// Language is a two-letter language code supported by the client
type Language string

const (
	English Language = "en"
	Swahili Language = "sw"
)

// DefaultLanguage is the language mode a new session starts in
const DefaultLanguage = English

// Toggle returns the other supported language
func (l Language) Toggle() Language {
	if l == Swahili {
		return English
	}
	return Swahili
}

// Locale returns the speech locale for the language
func (l Language) Locale() string {
	if l == Swahili {
		return LocaleSwahili
	}
	return LocaleEnglish
}

// Name returns the human readable language name
func (l Language) Name() string {
	switch l {
	case English:
		return "English"
	case Swahili:
		return "Swahili"
	default:
		return string(l)
	}
}

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == English || l == Swahili
}

// ParseLanguage converts user input into a Language
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "eng", "english":
		return English, nil
	case "sw", "swa", "swahili", "kiswahili":
		return Swahili, nil
	default:
		return "", apierrors.NewUnsupportedLanguageError(s)
	}
}

// Message is a single turn in the conversation.
// Language always names the language Content is currently written in.
type Message struct {
	ID        string
	Sender    Sender
	Content   string
	Language  Language
	CreatedAt time.Time
}

// IsAssistant reports whether the message was produced by the assistant
func (m Message) IsAssistant() bool {
	return m.Sender == Assistant
}
