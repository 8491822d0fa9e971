package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme defines the color scheme of the chat window
type TUITheme struct {
	Name        string
	Description string

	Border lipgloss.Color

	// Primary colors bot bubbles, Secondary user bubbles
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// DefaultTUITheme is used when no theme or an unknown theme is configured
const DefaultTUITheme = "tokyonight"

var tuiThemes = map[string]TUITheme{
	"tokyonight": {
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",
		Border:      lipgloss.Color("#414868"),
		Primary:     lipgloss.Color("#7aa2f7"),
		Secondary:   lipgloss.Color("#9ece6a"),
		Accent:      lipgloss.Color("#bb9af7"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
		TextMute:    lipgloss.Color("#3b4261"),
	},
	"catppuccin": {
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",
		Border:      lipgloss.Color("#45475a"),
		Primary:     lipgloss.Color("#89b4fa"),
		Secondary:   lipgloss.Color("#a6e3a1"),
		Accent:      lipgloss.Color("#cba6f7"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
		TextMute:    lipgloss.Color("#45475a"),
	},
	"dracula": {
		Name:        "dracula",
		Description: "Dracula, vivid dark",
		Border:      lipgloss.Color("#6272a4"),
		Primary:     lipgloss.Color("#8be9fd"),
		Secondary:   lipgloss.Color("#50fa7b"),
		Accent:      lipgloss.Color("#ff79c6"),
		Error:       lipgloss.Color("#ff5555"),
		Text:        lipgloss.Color("#f8f8f2"),
		TextDim:     lipgloss.Color("#6272a4"),
		TextMute:    lipgloss.Color("#44475a"),
	},
	"mono": {
		Name:        "mono",
		Description: "Terminal default colors only",
		Border:      lipgloss.Color("8"),
		Primary:     lipgloss.Color("15"),
		Secondary:   lipgloss.Color("7"),
		Accent:      lipgloss.Color("15"),
		Error:       lipgloss.Color("9"),
		Text:        lipgloss.Color("7"),
		TextDim:     lipgloss.Color("8"),
		TextMute:    lipgloss.Color("8"),
	},
}

var currentTUITheme = tuiThemes[DefaultTUITheme]

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave the current
// theme in place and return false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if ok {
		currentTUITheme = theme
	}
	return ok
}

// GetTUIThemeByName looks a theme up by name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	theme, ok := tuiThemes[name]
	return theme, ok
}

// TUIThemeNames returns the theme names in sorted order
func TUIThemeNames() []string {
	names := make([]string, 0, len(tuiThemes))
	for name := range tuiThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
