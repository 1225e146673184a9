package voice

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	apierrors "github.com/diogo/alimah/internal/errors"
)

// Whisper recognizes speech by recording one utterance and transcribing it
// with the whisper.cpp command line tool
type Whisper struct {
	command  string
	model    string
	maxDur   time.Duration
	recorder Recorder
	cue      Cue
	logger   *slog.Logger
	run      runFunc
	lookPath func(string) (string, error)
}

// WhisperOption is a function that configures the recognizer
type WhisperOption func(*Whisper)

// WithRecorder sets the audio source
func WithRecorder(r Recorder) WhisperOption {
	return func(w *Whisper) {
		w.recorder = r
	}
}

// WithCue plays cue before recording starts
func WithCue(c Cue) WhisperOption {
	return func(w *Whisper) {
		w.cue = c
	}
}

// WithMaxDuration caps the recording length
func WithMaxDuration(d time.Duration) WhisperOption {
	return func(w *Whisper) {
		if d > 0 {
			w.maxDur = d
		}
	}
}

// WithWhisperLogger sets the logger
func WithWhisperLogger(logger *slog.Logger) WhisperOption {
	return func(w *Whisper) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWhisper creates a recognizer running command with the given model file
func NewWhisper(command, model string, opts ...WhisperOption) *Whisper {
	if command == "" {
		command = "whisper-cli"
	}
	w := &Whisper{
		command:  command,
		model:    model,
		maxDur:   10 * time.Second,
		recorder: NewMicRecorder(),
		logger:   slog.Default(),
		run:      execRun,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Available reports whether the whisper binary is on PATH
func (w *Whisper) Available() bool {
	_, err := w.lookPath(w.command)
	return err == nil
}

// Recognize records a single utterance and returns its transcript
func (w *Whisper) Recognize(ctx context.Context, locale string) (string, error) {
	if w.cue != nil {
		if err := w.cue.Play(ctx); err != nil {
			w.logger.Debug("listening cue failed", "error", err)
		}
	}

	samples, err := w.recorder.Record(ctx, w.maxDur)
	if err != nil {
		return "", apierrors.NewRecognitionError("record", err)
	}
	if len(samples) == 0 {
		return "", apierrors.ErrNoSpeech
	}

	f, err := os.CreateTemp("", "alimah-*.wav")
	if err != nil {
		return "", apierrors.NewRecognitionError("encode", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := writeWAV(f, samples); err != nil {
		_ = f.Close()
		return "", apierrors.NewRecognitionError("encode", err)
	}
	if err := f.Close(); err != nil {
		return "", apierrors.NewRecognitionError("encode", err)
	}

	out, err := w.run(ctx, w.command, w.args(path, locale)...)
	if err != nil {
		return "", apierrors.NewRecognitionError("transcribe",
			fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out))))
	}

	transcript := cleanTranscript(string(out))
	if transcript == "" {
		return "", apierrors.ErrNoSpeech
	}

	w.logger.Debug("speech recognized", "locale", locale, "samples", len(samples))
	return transcript, nil
}

func (w *Whisper) args(path, locale string) []string {
	args := make([]string, 0, 9)
	if w.model != "" {
		args = append(args, "-m", w.model)
	}
	lang := languageOf(locale)
	if lang == "" {
		lang = "auto"
	}
	return append(args, "-l", lang, "-nt", "-np", "-f", path)
}

// writeWAV encodes mono float32 samples as 16-bit PCM
func writeWAV(f *os.File, samples []float32) error {
	enc := wav.NewEncoder(f, SampleRate, 16, 1, 1)

	data := make([]int, len(samples))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// cleanTranscript joins whisper's output lines and drops non-speech markers
// such as "[BLANK_AUDIO]" or "(music)"
func cleanTranscript(out string) string {
	var parts []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isMarker(line) {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

func isMarker(line string) bool {
	return (strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")) ||
		(strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")"))
}
