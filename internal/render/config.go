package render

import (
	"os"

	"github.com/diogo/alimah/internal/config"
)

// LoadOptions builds markdown options from the user configuration.
// GLAMOUR_STYLE overrides the configured style.
func LoadOptions(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	} else if cfg.TUITheme != "" {
		opts.Style = StyleForTheme(cfg.TUITheme)
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines
	opts.TableWrap = md.TableWrap
	opts.InlineTableLinks = md.InlineTableLinks

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
