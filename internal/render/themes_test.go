package render

import "testing"

func TestResolveStyle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", StyleDark},
		{"dark", StyleDark},
		{"tokyonight", StyleTokyoNight},
		{"catppuccin", StyleDark},
		{"plain", StyleNoTTY},
		{"/home/me/style.json", "/home/me/style.json"},
	}
	for _, tt := range tests {
		if got := ResolveStyle(tt.in); got != tt.want {
			t.Errorf("ResolveStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStyleForTheme(t *testing.T) {
	for _, name := range TUIThemeNames() {
		if !IsBuiltinStyle(StyleForTheme(name)) {
			t.Errorf("theme %s maps to unknown style %s", name, StyleForTheme(name))
		}
	}
}

func TestIsBuiltinStyle(t *testing.T) {
	for _, name := range ThemeNames() {
		if !IsBuiltinStyle(name) {
			t.Errorf("%s should be builtin", name)
		}
	}
	if IsBuiltinStyle("custom.json") {
		t.Error("paths are not builtin styles")
	}
}

func TestTUIThemes(t *testing.T) {
	names := TUIThemeNames()
	want := []string{"catppuccin", "dracula", "nord", "tokyonight"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	for _, name := range names {
		theme, ok := GetTUIThemeByName(name)
		if !ok {
			t.Fatalf("theme %s missing", name)
		}
		if theme.User == "" || theme.Assistant == "" || theme.Error == "" {
			t.Errorf("theme %s has empty colours", name)
		}
		if theme.User == theme.Assistant {
			t.Errorf("theme %s must tell user and assistant apart", name)
		}
	}
}
