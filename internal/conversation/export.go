package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/alimah/internal/models"
)

// ExportFormat represents the format of a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// FormatForPath picks the transcript format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// ExportMarkdown renders the conversation as a Markdown transcript
func ExportMarkdown(title string, msgs []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")

	if len(msgs) > 0 {
		sb.WriteString("**Started:** ")
		sb.WriteString(msgs[0].CreatedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(msgs)))

	for i, msg := range msgs {
		sb.WriteString("## ")
		sb.WriteString(msg.Sender.Label())
		sb.WriteString(" [")
		sb.WriteString(string(msg.Language))
		sb.WriteString("]")
		if !msg.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(msg.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}
	return sb.String()
}

type exportMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Language  string    `json:"language"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type exportConversation struct {
	Title    string          `json:"title"`
	Messages []exportMessage `json:"messages"`
}

// ExportJSON renders the conversation as indented JSON
func ExportJSON(title string, msgs []models.Message) ([]byte, error) {
	export := exportConversation{
		Title:    title,
		Messages: make([]exportMessage, len(msgs)),
	}
	for i, msg := range msgs {
		export.Messages[i] = exportMessage{
			ID:        msg.ID,
			Role:      msg.Sender.String(),
			Language:  string(msg.Language),
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		}
	}
	return json.MarshalIndent(export, "", "  ")
}

// WriteTranscript writes the store's messages to path in the format its extension selects
func (s *Store) WriteTranscript(path, title string) error {
	msgs := s.Messages()

	var data []byte
	switch FormatForPath(path) {
	case ExportFormatJSON:
		var err error
		data, err = ExportJSON(title, msgs)
		if err != nil {
			return fmt.Errorf("failed to marshal transcript: %w", err)
		}
	default:
		data = []byte(ExportMarkdown(title, msgs))
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}
