package render

import (
	"os"

	"github.com/diogo/personachat/internal/config"
)

// StyleEnv overrides the markdown style, as glamour's own tools do
const StyleEnv = "GLAMOUR_STYLE"

// OptionsFromConfig derives render options from the user configuration.
// GLAMOUR_STYLE takes precedence over markdown_style, which takes precedence
// over the style implied by the TUI theme.
func OptionsFromConfig(cfg config.Config, width int) Options {
	opts := DefaultOptions().
		WithStyle(EffectiveStyle(cfg.MarkdownStyle, cfg.TUITheme)).
		WithWidth(width)

	if style := os.Getenv(StyleEnv); style != "" && usableStyle(style) {
		opts.Style = style
	}

	return opts
}

// usableStyle accepts built-in names and existing style files
func usableStyle(style string) bool {
	if IsBuiltinStyle(style) {
		return true
	}
	_, err := os.Stat(style)
	return err == nil
}
