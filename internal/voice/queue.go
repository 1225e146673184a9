package voice

import (
	"context"
	"log/slog"
	"sync"
)

type utterance struct {
	text   string
	locale string
}

// Queue serialises utterances onto a single worker so Speak never blocks the caller.
// When the buffer is full new utterances are dropped.
type Queue struct {
	synth  Synthesizer
	logger *slog.Logger
	items  chan utterance
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewQueue starts a worker speaking through synth
func NewQueue(synth Synthesizer, size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = 8
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		synth:  synth,
		logger: logger,
		items:  make(chan utterance, size),
		ctx:    ctx,
		cancel: cancel,
	}
	q.wg.Add(1)
	go q.loop()
	return q
}

// Speak enqueues an utterance and returns immediately
func (q *Queue) Speak(_ context.Context, text, locale string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	select {
	case q.items <- utterance{text: text, locale: locale}:
	default:
		q.logger.Warn("speech queue full, dropping utterance", "locale", locale)
	}
	return nil
}

// Available reports whether the wrapped synthesizer can speak
func (q *Queue) Available() bool {
	return q.synth.Available()
}

// Close speaks what is already queued and stops the worker
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
	return nil
}

// Stop cancels the current utterance, discards the rest and stops the worker
func (q *Queue) Stop() {
	q.cancel()
	_ = q.Close()
}

func (q *Queue) loop() {
	defer q.wg.Done()
	for item := range q.items {
		if q.ctx.Err() != nil {
			continue
		}
		if err := q.synth.Speak(q.ctx, item.text, item.locale); err != nil {
			q.logger.Warn("speech synthesis failed", "locale", item.locale, "error", err)
		}
	}
}
