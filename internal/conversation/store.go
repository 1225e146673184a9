// Package conversation holds the in-memory, ordered message log of one chat session.
package conversation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/diogo/alimah/internal/models"
)

// Store is an append-only ordered sequence of messages.
// Messages are never removed; only Replace may change an existing one.
type Store struct {
	mu          sync.RWMutex
	messages    []models.Message
	index       map[string]int
	subscribers []func()
	now         func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source (used by tests)
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		index: make(map[string]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds a message to the end of the conversation and notifies subscribers
func (s *Store) Append(sender models.Sender, content string, lang models.Language) models.Message {
	s.mu.Lock()
	msg := models.Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Content:   content,
		Language:  lang,
		CreatedAt: s.now(),
	}
	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	s.notify()
	return msg
}

// Replace swaps content and language of the message with the given ID, but only
// if it is still tagged fromLang. Both fields change together.
func (s *Store) Replace(id string, fromLang models.Language, content string, toLang models.Language) bool {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok || s.messages[i].Language != fromLang {
		s.mu.Unlock()
		return false
	}
	s.messages[i].Content = content
	s.messages[i].Language = toLang
	s.mu.Unlock()

	s.notify()
	return true
}

// Messages returns a snapshot of the conversation in append order
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Get returns the message with the given ID
func (s *Store) Get(id string) (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return models.Message{}, false
	}
	return s.messages[i], true
}

// Len returns the number of messages
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// LatestAssistant returns the most recent assistant message
func (s *Store) LatestAssistant() (models.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].IsAssistant() {
			return s.messages[i], true
		}
	}
	return models.Message{}, false
}

// Subscribe registers fn to run after every change. fn runs outside the lock.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
