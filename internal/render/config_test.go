package render

import (
	"testing"

	"github.com/diogo/alimah/internal/config"
)

func TestLoadOptions(t *testing.T) {
	tests := []struct {
		name      string
		mdStyle   string
		tuiTheme  string
		envStyle  string
		wantStyle string
	}{
		{name: "markdown style wins", mdStyle: "light", tuiTheme: "dracula", wantStyle: "light"},
		{name: "falls back to theme", tuiTheme: "dracula", wantStyle: StyleDracula},
		{name: "theme alias", tuiTheme: "tokyonight", wantStyle: StyleTokyoNight},
		{name: "nothing set", wantStyle: DefaultOptions().Style},
		{name: "env overrides all", mdStyle: "light", tuiTheme: "nord", envStyle: "pink", wantStyle: "pink"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GLAMOUR_STYLE", tt.envStyle)

			cfg := config.DefaultConfig()
			cfg.Markdown.Style = tt.mdStyle
			cfg.TUITheme = tt.tuiTheme

			opts := LoadOptions(cfg)
			if opts.Style != tt.wantStyle {
				t.Errorf("Style = %q, want %q", opts.Style, tt.wantStyle)
			}
		})
	}
}

func TestLoadOptions_CopiesMarkdownFlags(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.EnableEmoji = false
	cfg.Markdown.TableWrap = false
	cfg.Markdown.InlineTableLinks = true

	opts := LoadOptions(cfg)
	if opts.EnableEmoji || opts.TableWrap || !opts.InlineTableLinks {
		t.Errorf("markdown flags not copied: %+v", opts)
	}
}
