package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != StyleDark {
		t.Errorf("expected Style=dark, got %s", opts.Style)
	}
	if !opts.EnableEmoji || !opts.PreserveNewLines || !opts.TableWrap {
		t.Error("expected emoji, newlines and table wrap enabled")
	}
	if opts.InlineTableLinks {
		t.Error("expected InlineTableLinks=false")
	}
}

func TestOptionsCopy(t *testing.T) {
	base := DefaultOptions()
	wide := base.WithWidth(120).WithStyle(StyleLight)

	if base.Width != 80 || base.Style != StyleDark {
		t.Error("With* must not modify the receiver")
	}
	if wide.Width != 120 || wide.Style != StyleLight {
		t.Errorf("unexpected options %+v", wide)
	}
}

func TestMarkdown(t *testing.T) {
	out, err := MarkdownWithWidth("Try **box breathing**:\n\n1. In for 4\n2. Hold for 4", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "box breathing") {
		t.Errorf("expected content in output, got %q", out)
	}
	if strings.HasPrefix(out, "\n") || strings.HasSuffix(out, "\n") {
		t.Error("expected surrounding newlines trimmed")
	}
}
