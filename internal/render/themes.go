package render

// glamour built-in style names
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
	StylePink       = "pink"
)

// StyleInfo describes a markdown style offered for selection
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles returns the built-in markdown styles in menu order.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark theme (default)"},
		{Name: StyleTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: StyleDracula, Description: "Dracula color scheme"},
		{Name: StyleLight, Description: "Light theme for bright terminals"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text (no styling)"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns just the style names for selection.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether style names one of glamour's built-in styles.
func IsBuiltinStyle(style string) bool {
	switch style {
	case StyleDark, StyleLight, StyleDracula, StyleTokyoNight, StyleNoTTY, StyleASCII, StylePink:
		return true
	default:
		return false
	}
}

// EffectiveStyle returns the configured markdown style, or the one implied by
// the TUI theme when none is set.
func EffectiveStyle(markdownStyle, tuiTheme string) string {
	if markdownStyle != "" {
		return markdownStyle
	}
	return StyleForTUITheme(tuiTheme)
}

// StyleForTUITheme picks the markdown style that matches a TUI theme.
func StyleForTUITheme(name string) string {
	switch name {
	case "tokyonight":
		return StyleTokyoNight
	case "dracula":
		return StyleDracula
	default:
		return StyleDark
	}
}
