package tui

import (
	"github.com/diogo/personachat/internal/render"
)

const helpMarkdown = `# Keys

| Key | Action |
|---|---|
| Enter | Send the message |
| Ctrl+S | Send the message |
| Alt+Enter, Ctrl+J | New line |
| Ctrl+P | Choose a persona (clears the conversation) |
| Ctrl+Y | Copy the last reply |
| Esc | Cancel a pending reply, otherwise quit |
| Ctrl+C | Quit |
| PgUp, PgDn | Scroll the conversation |

Replies are shown exactly as the backend sends them.

Press **F1** or **Esc** to close this help.
`

func (m Model) renderHelp() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	body := render.MarkdownOrPlain(helpMarkdown, m.renderOpts.WithWidth(width-6))
	if m.lastErr != nil {
		body += "\n\n" + selectorTitleStyle.Render("Last error") + "\n" + FormatError(m.lastErr)
	}
	return selectorBoxStyle.Width(width).Render(body)
}
