package render

// Markdown styles bundled with glamour
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// styleAliases maps TUI theme names and common spellings onto glamour styles
var styleAliases = map[string]string{
	"tokyonight": StyleTokyoNight,
	"catppuccin": StyleDark,
	"nord":       StyleDark,
	"plain":      StyleNoTTY,
}

// IsBuiltinStyle reports whether style names a glamour style or an alias of one
func IsBuiltinStyle(style string) bool {
	switch style {
	case StyleDark, StyleLight, StyleDracula, StyleTokyoNight, StylePink, StyleNoTTY, StyleASCII:
		return true
	}
	_, ok := styleAliases[style]
	return ok
}

// ResolveStyle turns an alias into a glamour style name.
// Anything else (including a path to a JSON style) is returned unchanged.
func ResolveStyle(style string) string {
	if style == "" {
		return StyleDark
	}
	if s, ok := styleAliases[style]; ok {
		return s
	}
	return style
}

// StyleForTheme returns the markdown style matching a TUI theme
func StyleForTheme(theme string) string {
	if theme == "dracula" {
		return StyleDracula
	}
	return ResolveStyle(theme)
}

// ThemeInfo describes a markdown style for display
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes lists the markdown styles accepted by markdown.style
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: StyleDark, Description: "Dark terminals (default)"},
		{Name: StyleLight, Description: "Light terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night colours"},
		{Name: StyleDracula, Description: "Dracula colours"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "No colours, keeps layout"},
		{Name: StyleASCII, Description: "ASCII only"},
	}
}

// ThemeNames returns the style names
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
