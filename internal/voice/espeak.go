package voice

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// baseWordsPerMinute is espeak's default speaking speed
const baseWordsPerMinute = 175

// runFunc executes an external command and returns its combined output
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Espeak speaks through the espeak-ng command line synthesizer
type Espeak struct {
	command  string
	rate     float64
	run      runFunc
	lookPath func(string) (string, error)
}

// NewEspeak creates a synthesizer running command at the given relative rate (1.0 = normal)
func NewEspeak(command string, rate float64) *Espeak {
	if command == "" {
		command = "espeak-ng"
	}
	if rate <= 0 {
		rate = 1
	}
	return &Espeak{
		command:  command,
		rate:     rate,
		run:      execRun,
		lookPath: exec.LookPath,
	}
}

// Available reports whether the binary is on PATH
func (e *Espeak) Available() bool {
	_, err := e.lookPath(e.command)
	return err == nil
}

// Speak blocks until the utterance has been spoken
func (e *Espeak) Speak(ctx context.Context, text, locale string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	out, err := e.run(ctx, e.command, e.args(text, locale)...)
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", e.command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (e *Espeak) args(text, locale string) []string {
	return []string{
		"-v", espeakVoice(locale),
		"-s", strconv.Itoa(int(baseWordsPerMinute * e.rate)),
		"--", text,
	}
}

// espeakVoice maps a locale onto an espeak-ng voice name
func espeakVoice(locale string) string {
	switch strings.ToLower(locale) {
	case "en-us":
		return "en-us"
	case "en-gb":
		return "en-gb"
	case "":
		return "en"
	}
	return languageOf(locale)
}
