// Package render turns the conversation into terminal output: markdown through
// glamour, chat bubbles through lipgloss.
package render

// Options configures the markdown renderer
type Options struct {
	Width int
	// Style is a glamour style name, an alias such as "tokyonight", or a path to a JSON style
	Style            string
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// WithWidth returns a copy with the given wrap width
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy with the given style
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
