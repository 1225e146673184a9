package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/diogo/alimah/internal/conversation"
	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
	"github.com/diogo/alimah/internal/voice"
)

// TranslateStats summarises one translation pass
type TranslateStats struct {
	Requested  int
	Translated int
	Failed     int
	// Stale counts translations discarded because the message changed language meanwhile
	Stale int
}

// Session is one chat: the conversation store, the language mode and the
// capabilities used to answer, translate, speak and listen.
type Session struct {
	store       *conversation.Store
	source      ReplySource
	translator  Translator
	synth       voice.Synthesizer
	recognizer  voice.Recognizer
	logger      *slog.Logger
	replyLang   models.Language
	autoXlate   bool
	guard       bool
	errorReply  string
	concurrency int

	mu       sync.Mutex
	lang     models.Language
	inFlight int
}

// SessionOption is a function that configures the session
type SessionOption func(*Session)

// WithStore uses an existing conversation store
func WithStore(store *conversation.Store) SessionOption {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTranslator sets the translation client
func WithTranslator(t Translator) SessionOption {
	return func(s *Session) {
		s.translator = t
	}
}

// WithSynthesizer sets speech output
func WithSynthesizer(synth voice.Synthesizer) SessionOption {
	return func(s *Session) {
		s.synth = synth
	}
}

// WithRecognizer sets speech input
func WithRecognizer(r voice.Recognizer) SessionOption {
	return func(s *Session) {
		s.recognizer = r
	}
}

// WithLanguage sets the initial language mode
func WithLanguage(lang models.Language) SessionOption {
	return func(s *Session) {
		if lang.Valid() {
			s.lang = lang
		}
	}
}

// WithReplyLanguage sets the language assistant replies arrive in
func WithReplyLanguage(lang models.Language) SessionOption {
	return func(s *Session) {
		if lang.Valid() {
			s.replyLang = lang
		}
	}
}

// WithAutoTranslate translates each new reply into the current mode
func WithAutoTranslate(enabled bool) SessionOption {
	return func(s *Session) {
		s.autoXlate = enabled
	}
}

// WithSendGuard rejects a submission while another one is pending
func WithSendGuard(enabled bool) SessionOption {
	return func(s *Session) {
		s.guard = enabled
	}
}

// WithErrorReply records reply as the assistant's answer when the source fails.
// Without it a failure is returned to the caller as a SendError.
func WithErrorReply(reply string) SessionOption {
	return func(s *Session) {
		s.errorReply = reply
	}
}

// WithTranslateConcurrency caps parallel translation requests. Zero means unlimited.
func WithTranslateConcurrency(n int) SessionOption {
	return func(s *Session) {
		s.concurrency = n
	}
}

// WithSessionLogger sets the logger
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession creates a session answering through source
func NewSession(source ReplySource, opts ...SessionOption) *Session {
	s := &Session{
		store:     conversation.NewStore(),
		source:    source,
		logger:    slog.Default(),
		lang:      models.DefaultLanguage,
		replyLang: models.English,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.synth = voice.SynthesizerOrNoop(s.synth)
	s.recognizer = voice.RecognizerOrNoop(s.recognizer)
	return s
}

// Init runs the source's connection check. Failure ends the session.
func (s *Session) Init(ctx context.Context) error {
	if !s.guard {
		s.logger.Warn("send guard disabled: a message can be sent while another is pending")
	}

	initializer, ok := s.source.(Initializer)
	if !ok {
		return nil
	}
	if err := initializer.Init(ctx); err != nil {
		s.logger.Error("initialization failed", "error", err)
		return apierrors.NewInitError(err)
	}
	return nil
}

// Store returns the conversation store
func (s *Session) Store() *conversation.Store {
	return s.store
}

// Language returns the current language mode
func (s *Session) Language() models.Language {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// InFlight reports whether a reply is pending
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// GuardEnabled reports whether overlapping sends are rejected
func (s *Session) GuardEnabled() bool {
	return s.guard
}

// SpeechAvailable reports whether replies can be spoken
func (s *Session) SpeechAvailable() bool {
	return s.synth.Available()
}

// ListenAvailable reports whether speech can be recognized
func (s *Session) ListenAvailable() bool {
	return s.recognizer.Available()
}

// Submit records the user's message, waits for the reply and records it
func (s *Session) Submit(ctx context.Context, text string) (models.Message, error) {
	userMsg, err := s.BeginSend(text)
	if err != nil {
		return models.Message{}, err
	}
	return s.CompleteSend(ctx, userMsg)
}

// BeginSend validates text and records it as a user message.
// Every successful BeginSend must be followed by CompleteSend.
func (s *Session) BeginSend(text string) (models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Message{}, apierrors.ErrEmptyInput
	}

	s.mu.Lock()
	if s.guard && s.inFlight > 0 {
		s.mu.Unlock()
		return models.Message{}, apierrors.ErrSendInFlight
	}
	s.inFlight++
	lang := s.lang
	s.mu.Unlock()

	return s.store.Append(models.User, text, lang), nil
}

// CompleteSend asks the source for a reply to userMsg and records it
func (s *Session) CompleteSend(ctx context.Context, userMsg models.Message) (models.Message, error) {
	defer s.done()

	reply, err := s.source.Reply(ctx, userMsg.Content)
	if err != nil {
		s.logger.Error("error sending message", "error", err)
		if s.errorReply == "" {
			return models.Message{}, apierrors.NewSendError(err)
		}
		reply = s.errorReply
	}

	msg := s.store.Append(models.Assistant, reply, s.replyLang)

	mode := s.Language()
	if s.autoXlate && msg.Language != mode {
		if translated, ok := s.translateOne(ctx, msg, mode); ok {
			msg = translated
		}
	}

	s.speak(ctx, msg.Content, mode)
	return msg, nil
}

func (s *Session) done() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

// ToggleLanguage switches between English and Swahili and translates the conversation
func (s *Session) ToggleLanguage(ctx context.Context) (models.Language, TranslateStats) {
	s.mu.Lock()
	s.lang = s.lang.Toggle()
	target := s.lang
	s.mu.Unlock()

	s.logger.Info("language switched", "language", string(target))
	return target, s.TranslateAll(ctx, target)
}

// TranslateAll translates every message not already in target, one request per
// message in parallel. It returns when all requests have finished. A failed
// translation leaves its message unchanged.
func (s *Session) TranslateAll(ctx context.Context, target models.Language) TranslateStats {
	var pending []models.Message
	for _, msg := range s.store.Messages() {
		if msg.Language != target {
			pending = append(pending, msg)
		}
	}

	stats := TranslateStats{Requested: len(pending)}
	if len(pending) == 0 {
		return stats
	}

	var translated, failed, stale atomic.Int32
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}

	for _, msg := range pending {
		g.Go(func() error {
			switch _, ok := s.translateOne(ctx, msg, target); {
			case ok:
				translated.Add(1)
			case s.isStale(msg):
				stale.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	stats.Translated = int(translated.Load())
	stats.Failed = int(failed.Load())
	stats.Stale = int(stale.Load())

	s.logger.Debug("translation pass finished",
		"target", string(target),
		"requested", stats.Requested,
		"translated", stats.Translated,
		"failed", stats.Failed,
	)
	return stats
}

// translateOne translates msg into target and stores the result
func (s *Session) translateOne(ctx context.Context, msg models.Message, target models.Language) (models.Message, bool) {
	if s.translator == nil {
		s.logger.Warn("translation unavailable", "id", msg.ID)
		return msg, false
	}

	text, err := s.translator.Translate(ctx, msg.Content, msg.Language, target)
	if err != nil {
		s.logger.Warn("translation failed",
			"id", msg.ID,
			"from", string(msg.Language),
			"to", string(target),
			"error", err,
		)
		return msg, false
	}

	if !s.store.Replace(msg.ID, msg.Language, text, target) {
		return msg, false
	}

	msg.Content = text
	msg.Language = target
	return msg, true
}

// isStale reports whether msg's stored language no longer matches the snapshot
func (s *Session) isStale(msg models.Message) bool {
	cur, ok := s.store.Get(msg.ID)
	return ok && cur.Language != msg.Language
}

// SpeakLatest speaks the most recent assistant message. Without one it does nothing.
func (s *Session) SpeakLatest(ctx context.Context) error {
	msg, ok := s.store.LatestAssistant()
	if !ok {
		return nil
	}
	return s.speak(ctx, msg.Content, s.Language())
}

func (s *Session) speak(ctx context.Context, text string, lang models.Language) error {
	if err := s.synth.Speak(ctx, text, lang.Locale()); err != nil {
		s.logger.Warn("speech synthesis failed", "error", err)
		return err
	}
	return nil
}

// Listen captures one utterance in the current language and returns its transcript
func (s *Session) Listen(ctx context.Context) (string, error) {
	locale := s.Language().Locale()

	text, err := s.recognizer.Recognize(ctx, locale)
	if err != nil {
		if errors.Is(err, apierrors.ErrNoSpeech) {
			s.logger.Info("no speech recognized", "locale", locale)
		} else {
			s.logger.Warn("speech recognition error", "locale", locale, "error", err)
		}
		return "", err
	}
	return text, nil
}

// Close stops speech output and releases the reply source
func (s *Session) Close() error {
	var errs []error
	if c, ok := s.synth.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := s.source.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
