package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/diogo/alimah/internal/models"
)

// bubbleRatio is the share of the view a bubble may occupy
const bubbleRatio = 0.7

// ConversationOptions controls how the conversation is drawn
type ConversationOptions struct {
	Width          int
	ShowTimestamps bool
	// Now is the reference time for relative timestamps
	Now   time.Time
	Theme TUITheme
	// Markdown renders assistant content when set
	Markdown *Options
}

// Conversation draws every message as a bubble, oldest first. User bubbles sit
// on the right, assistant bubbles on the left. The output depends only on msgs and opts.
func Conversation(msgs []models.Message, opts ConversationOptions) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	theme := opts.Theme
	if theme.Name == "" {
		theme = TokyoNightTheme
	}

	inner := int(float64(width)*bubbleRatio) - 4
	if inner < 10 {
		inner = 10
	}

	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, bubble(msg, opts, theme, width, inner))
	}
	return strings.Join(blocks, "\n")
}

func bubble(msg models.Message, opts ConversationOptions, theme TUITheme, width, inner int) string {
	color := theme.User
	align := lipgloss.Right
	content := msg.Content

	if msg.IsAssistant() {
		color = theme.Assistant
		align = lipgloss.Left
		if opts.Markdown != nil {
			if out, err := Markdown(content, opts.Markdown.WithWidth(inner)); err == nil {
				content = trimMargins(out)
			}
		}
	}

	header := lipgloss.NewStyle().Foreground(color).Bold(true).Render(msg.Sender.Label()) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta(msg, opts))

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Foreground(theme.Text).
		Padding(0, 1)
	if lipgloss.Width(content) > inner {
		body = body.Width(inner)
	}

	block := lipgloss.JoinVertical(align, header, body.Render(content))
	return lipgloss.PlaceHorizontal(width, align, block)
}

// meta is the dimmed text after the sender label: language tag and age
func meta(msg models.Message, opts ConversationOptions) string {
	s := " · " + strings.ToUpper(string(msg.Language))
	if opts.ShowTimestamps && !msg.CreatedAt.IsZero() && !opts.Now.IsZero() {
		s += " · " + humanize.RelTime(msg.CreatedAt, opts.Now, "ago", "from now")
	}
	return s
}

// trimMargins removes glamour's document margin and surrounding blank lines
func trimMargins(s string) string {
	lines := strings.Split(s, "\n")
	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent > 0 {
		for i, line := range lines {
			if len(line) >= indent {
				lines[i] = line[indent:]
			}
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Trim(strings.Join(lines, "\n"), "\n")
}

// ConversationPlain returns an uncoloured transcript, one message per paragraph
func ConversationPlain(msgs []models.Message) string {
	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s [%s]: %s\n", msg.Sender.Label(), msg.Language, msg.Content)
	}
	return sb.String()
}
