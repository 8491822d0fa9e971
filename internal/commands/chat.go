package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/personachat/internal/render"
	"github.com/diogo/personachat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start the interactive chat window.

Enter sends, Alt+Enter adds a line, Ctrl+P switches persona (which clears
the conversation), F1 shows all keys. Diagnostics go to the log file while
the window is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps, opts)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies, opts *rootOptions) error {
	sess, err := newSession(deps, opts, cmd.ErrOrStderr(), logFile)
	if err != nil {
		return err
	}
	defer sess.Close()

	if sess.cfg.TUITheme != "" && !render.SetTUITheme(sess.cfg.TUITheme) {
		sess.logger.Warn().
			Str("theme", sess.cfg.TUITheme).
			Strs("available", render.TUIThemeNames()).
			Msg("unknown TUI theme, using default")
	}
	tui.UpdateTheme()

	renderOpts := render.OptionsFromConfig(sess.cfg, getTerminalWidth())

	sess.logger.Info().
		Str("persona", sess.persona).
		Str("backend", sess.cfg.BackendURL).
		Msg("starting chat")

	return deps.TUI.RunChat(cmd.Context(), sess.controller(), sess.catalog, sess.host, renderOpts)
}
