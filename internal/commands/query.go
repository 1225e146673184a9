package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
	"github.com/diogo/alimah/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorWarning  = lipgloss.Color("#e0af68")
	colorError    = lipgloss.Color("#f7768e")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner drawing on out
func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.out, "%s %s\n", checkmark, successStyle.Render(message))
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// progress wraps an optional spinner so quiet runs skip the animation
type progress struct {
	spin  *spinner
	out   io.Writer
	quiet bool
}

func (p *progress) start(message string) {
	if p.quiet {
		return
	}
	p.spin = newSpinner(p.out, message)
	p.spin.start()
}

func (p *progress) success(message string) {
	if p.spin != nil {
		p.spin.stopWithSuccess(message)
		p.spin = nil
	}
}

func (p *progress) fail() {
	if p.spin != nil {
		p.spin.stopWithError()
		p.spin = nil
	}
}

// runQuery sends a single message and prints the reply.
// --raw prints only the reply text; a non-terminal stdout gets a plain transcript.
func runQuery(ctx context.Context, deps *Dependencies, g *globalFlags, q *queryFlags, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apierrors.ErrEmptyInput
	}

	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}
	if err := applyLanguage(&cfg, q.lang); err != nil {
		return err
	}
	logger := stderrLogger(deps, g, cfg)

	rawOutput := q.raw || !deps.IsTTY()
	p := &progress{out: deps.Stderr, quiet: rawOutput}

	session, err := deps.buildSession(cfg, logger, q.speak)
	if err != nil {
		return err
	}
	defer session.Close()

	p.start("Connecting")
	if err := session.Init(ctx); err != nil {
		p.fail()
		return err
	}
	p.success("Connected")

	p.start(models.AssistantName + " is typing")
	start := time.Now()
	reply, err := session.Submit(ctx, text)
	if err != nil {
		p.fail()
		return err
	}
	p.success("Done")
	logger.Debug("reply received", "duration", time.Since(start).Round(time.Millisecond), "language", reply.Language)

	if q.speak && !session.SpeechAvailable() {
		fmt.Fprintln(deps.Stderr, warningStyle.Render("⚠ Speech synthesis unavailable: install "+cfg.TTSCommand))
	}

	if q.copy || cfg.CopyToClipboard {
		if err := deps.Clipboard(reply.Content); err != nil {
			fmt.Fprintln(deps.Stderr, warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if !rawOutput {
			fmt.Fprintln(deps.Stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if q.output != "" {
		if err := writeFile(q.output, reply.Content); err != nil {
			return err
		}
		if !rawOutput {
			fmt.Fprintln(deps.Stderr, successStyle.Render("✓ Reply saved to "+q.output))
		}
		return nil
	}

	switch {
	case q.raw:
		fmt.Fprintln(deps.Stdout, reply.Content)
	case rawOutput:
		fmt.Fprint(deps.Stdout, render.ConversationPlain(session.Store().Messages()))
	default:
		fmt.Fprintln(deps.Stdout, formatReply(reply, render.LoadOptions(cfg), getTerminalWidth()))
	}
	return nil
}

// formatReply renders the reply as a labelled bubble of at most termWidth columns
func formatReply(reply models.Message, opts render.Options, termWidth int) string {
	bubbleWidth := termWidth - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	label := assistantLabelStyle.Render(fmt.Sprintf("✦ %s · %s", models.AssistantName, strings.ToUpper(string(reply.Language))))

	rendered, err := render.Markdown(reply.Content, opts.WithWidth(contentWidth))
	if err != nil {
		rendered = reply.Content
	}
	return label + "\n" + assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
		return sb.String()
	}

	switch {
	case apierrors.IsInitError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: check backend_url, or run 'alimah chat --simulate'"))
	case apierrors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
	case apierrors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your connection and that the backend is running"))
	case errors.Is(err, apierrors.ErrUnavailable):
		sb.WriteString(dimStyle.Render("\n  Hint: install the speech engine or set tts_command / stt_command"))
	}
	return sb.String()
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
