// Package models contains the data types and constants shared across alimah.
package models

import "time"

// Endpoints used by default
const (
	EndpointTranslate = "https://api.mymemory.translated.net/get"
	EndpointBackend   = "http://localhost:4943/api/chat"
)

// Speech locales
const (
	LocaleEnglish = "en-US"
	LocaleSwahili = "sw-KE"
)

// Simulated backend defaults
const (
	SimulatedDelay = 800 * time.Millisecond

	GreetingReply = "Hello! How are you feeling today?"
	DefaultReply  = "Thank you for sharing. Could you elaborate more on that?"
	ErrorReply    = "Sorry, there was an error processing your request."
)

// Phrase maps a normalized user input to a canned reply
type Phrase struct {
	Match string `yaml:"match"`
	Reply string `yaml:"reply"`
}

// DefaultPhrases returns the built-in simulated reply table in lookup order
func DefaultPhrases() []Phrase {
	return []Phrase{
		{Match: "hello", Reply: GreetingReply},
		{Match: "stress", Reply: "I understand stress can be challenging. Let's explore some breathing exercises."},
		{Match: "sad", Reply: "I'm sorry you're feeling this way. Would you like to talk about it?"},
	}
}

// DefaultHeaders returns the headers sent with every HTTP request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
		"Accept":          "application/json, text/plain;q=0.9, */*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9,sw;q=0.8",
	}
}
