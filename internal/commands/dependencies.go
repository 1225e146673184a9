package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"golang.org/x/term"

	"github.com/diogo/alimah/internal/api"
	"github.com/diogo/alimah/internal/chat"
	"github.com/diogo/alimah/internal/config"
	"github.com/diogo/alimah/internal/models"
	"github.com/diogo/alimah/internal/tui"
	"github.com/diogo/alimah/internal/voice"
)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// LoadConfig reads the user configuration
	LoadConfig func() (config.Config, error)
	// ReplySource builds the backend that answers messages
	ReplySource func(cfg config.Config, logger *slog.Logger) (chat.ReplySource, error)
	// Translator builds the translation client
	Translator func(cfg config.Config, logger *slog.Logger) (chat.Translator, error)
	// Synthesizer and Recognizer build the speech engines
	Synthesizer func(cfg config.Config, logger *slog.Logger) voice.Synthesizer
	Recognizer  func(cfg config.Config, logger *slog.Logger) voice.Recognizer

	// RunChat runs the interactive TUI
	RunChat func(ctx context.Context, session *chat.Session, opts tui.Options) error
	// Clipboard copies text to the system clipboard
	Clipboard func(string) error
	// IsTTY reports whether stdout is a terminal
	IsTTY func() bool
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		LoadConfig:  config.LoadConfig,
		ReplySource: newReplySource,
		Translator:  newTranslator,
		Synthesizer: newSynthesizer,
		Recognizer:  newRecognizer,
		RunChat:     tui.RunChat,
		Clipboard:   clipboard.WriteAll,
		IsTTY:       isStdoutTTY,
	}
}

// buildSession assembles a chat session from cfg. Replies are spoken only when speak is set.
func (d *Dependencies) buildSession(cfg config.Config, logger *slog.Logger, speak bool) (*chat.Session, error) {
	source, err := d.ReplySource(cfg, logger)
	if err != nil {
		return nil, err
	}

	opts := []chat.SessionOption{
		chat.WithLanguage(cfg.LanguageMode()),
		chat.WithReplyLanguage(cfg.ReplyLanguageMode()),
		chat.WithAutoTranslate(cfg.AutoTranslate),
		chat.WithSendGuard(cfg.SendGuardEnabled()),
		chat.WithTranslateConcurrency(cfg.TranslateConcurrency),
		chat.WithSessionLogger(logger),
	}
	if cfg.Backend == config.BackendSimulated {
		opts = append(opts, chat.WithErrorReply(models.ErrorReply))
	}

	translator, err := d.Translator(cfg, logger)
	if err != nil {
		return nil, err
	}
	opts = append(opts, chat.WithTranslator(translator))

	if speak {
		if synth := d.Synthesizer(cfg, logger); synth != nil && synth.Available() {
			opts = append(opts, chat.WithSynthesizer(voice.NewQueue(synth, 0, logger)))
		} else {
			logger.Info("speech synthesis unavailable", "command", cfg.TTSCommand)
		}
	}
	if rec := d.Recognizer(cfg, logger); rec != nil {
		opts = append(opts, chat.WithRecognizer(rec))
	}

	return chat.NewSession(source, opts...), nil
}

func newReplySource(cfg config.Config, logger *slog.Logger) (chat.ReplySource, error) {
	if cfg.Backend == config.BackendSimulated {
		simOpts := []chat.SimulatedOption{chat.WithDelay(cfg.SimulatedDelay())}
		if cfg.SimulatedPhrases != "" {
			extra, err := chat.LoadPhrases(cfg.SimulatedPhrases)
			if err != nil {
				return nil, err
			}
			simOpts = append(simOpts, extra...)
		}
		return chat.NewSimulated(simOpts...), nil
	}

	if api.IsWebSocketURL(cfg.BackendURL) {
		return api.NewWSBackend(cfg.BackendURL,
			api.WithWSToken(config.BackendToken()),
			api.WithWSTimeout(cfg.Timeout()),
			api.WithWSLogger(logger),
		)
	}

	doer, err := api.NewHTTPClient(api.TransportOptions{Timeout: cfg.Timeout(), Proxy: cfg.Proxy})
	if err != nil {
		return nil, err
	}
	return api.NewBackend(cfg.BackendURL,
		api.WithHTTPClient(doer),
		api.WithReplyPath(cfg.ReplyPath),
		api.WithHealthPath(cfg.HealthPath),
		api.WithToken(config.BackendToken()),
		api.WithLogger(logger),
	)
}

func newTranslator(cfg config.Config, logger *slog.Logger) (chat.Translator, error) {
	doer, err := api.NewHTTPClient(api.TransportOptions{Timeout: cfg.Timeout(), Proxy: cfg.Proxy})
	if err != nil {
		return nil, err
	}
	return api.NewTranslator(
		api.WithTranslatorHTTPClient(doer),
		api.WithEndpoint(cfg.TranslateURL),
		api.WithEmail(cfg.TranslateEmail),
		api.WithRateLimit(cfg.TranslateRPS),
		api.WithTranslatorLogger(logger),
	)
}

func newSynthesizer(cfg config.Config, _ *slog.Logger) voice.Synthesizer {
	return voice.NewEspeak(cfg.TTSCommand, cfg.TTSRate)
}

func newRecognizer(cfg config.Config, logger *slog.Logger) voice.Recognizer {
	opts := []voice.WhisperOption{
		voice.WithMaxDuration(time.Duration(cfg.MaxRecordSeconds) * time.Second),
		voice.WithWhisperLogger(logger),
	}
	if cfg.ListenCue {
		opts = append(opts, voice.WithCue(voice.DefaultTone))
	}
	return voice.NewWhisper(cfg.STTCommand, cfg.STTModel, opts...)
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// loadConfig loads and validates the configuration
func (d *Dependencies) loadConfig() (config.Config, error) {
	cfg, err := d.LoadConfig()
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
