package chat

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/diogo/alimah/internal/models"
)

// Simulated answers from a fixed phrase table after an artificial delay.
// Lookup is an exact match on the lowercased, trimmed input; the first entry wins.
type Simulated struct {
	phrases      []models.Phrase
	defaultReply string
	delay        time.Duration
}

// SimulatedOption is a function that configures the simulated source
type SimulatedOption func(*Simulated)

// WithDelay sets the artificial reply delay
func WithDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithPhrases adds entries to the table. An entry whose match already exists
// replaces the reply in place; new entries are appended in order.
func WithPhrases(phrases []models.Phrase) SimulatedOption {
	return func(s *Simulated) {
		s.phrases = mergePhrases(s.phrases, phrases)
	}
}

// WithDefaultReply sets the reply for unmatched input
func WithDefaultReply(reply string) SimulatedOption {
	return func(s *Simulated) {
		if reply != "" {
			s.defaultReply = reply
		}
	}
}

// NewSimulated creates a simulated source with the built-in phrase table
func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		phrases:      models.DefaultPhrases(),
		defaultReply: models.DefaultReply,
		delay:        models.SimulatedDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reply waits for the configured delay and returns the canned answer
func (s *Simulated) Reply(ctx context.Context, text string) (string, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.Lookup(text), nil
}

// Lookup returns the reply for text without waiting
func (s *Simulated) Lookup(text string) string {
	key := normalize(text)
	for _, p := range s.phrases {
		if p.Match == key {
			return p.Reply
		}
	}
	return s.defaultReply
}

// Phrases returns a copy of the table in lookup order
func (s *Simulated) Phrases() []models.Phrase {
	out := make([]models.Phrase, len(s.phrases))
	copy(out, s.phrases)
	return out
}

// phraseFile is the on-disk format of a phrase table
type phraseFile struct {
	Default string          `yaml:"default"`
	Phrases []models.Phrase `yaml:"phrases"`
}

// LoadPhrases reads a YAML phrase file and returns options applying it
func LoadPhrases(path string) ([]SimulatedOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read phrase file: %w", err)
	}

	var file phraseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse phrase file %s: %w", path, err)
	}

	for i, p := range file.Phrases {
		if normalize(p.Match) == "" || strings.TrimSpace(p.Reply) == "" {
			return nil, fmt.Errorf("phrase %d in %s: match and reply are required", i+1, path)
		}
	}

	return []SimulatedOption{
		WithPhrases(file.Phrases),
		WithDefaultReply(file.Default),
	}, nil
}

func mergePhrases(base, extra []models.Phrase) []models.Phrase {
	out := make([]models.Phrase, len(base), len(base)+len(extra))
	copy(out, base)

	for _, p := range extra {
		p.Match = normalize(p.Match)
		replaced := false
		for i := range out {
			if out[i].Match == p.Match {
				out[i].Reply = p.Reply
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
