package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/personachat/internal/config"
)

const maxSelectorItems = 8

// openPersonaSelector shows the selector with the cursor on the current persona
func (m *Model) openPersonaSelector() {
	m.selectingPersona = true
	m.personaFilter = ""
	m.personaCursor = 0

	current := m.ctrl.Persona()
	for i, p := range m.filteredPersonas() {
		if p.ID == current {
			m.personaCursor = i
			break
		}
	}
}

func (m *Model) closePersonaSelector() {
	m.selectingPersona = false
	m.personaFilter = ""
	m.personaCursor = 0
}

// updatePersonaSelection handles updates while the selector is open
func (m Model) updatePersonaSelection(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case settledMsg:
		// a reply may land while the selector is open
		m.settle(msg.outcome)
		m.syncViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "esc":
			m.closePersonaSelector()

		case "up", "ctrl+k":
			if n := len(m.filteredPersonas()); n > 0 {
				m.personaCursor = (m.personaCursor - 1 + n) % n
			}

		case "down", "ctrl+j", "tab":
			if n := len(m.filteredPersonas()); n > 0 {
				m.personaCursor = (m.personaCursor + 1) % n
			}

		case "enter":
			filtered := m.filteredPersonas()
			if m.personaCursor < len(filtered) {
				m.selectPersona(filtered[m.personaCursor].ID)
			}

		case "backspace":
			if r := []rune(m.personaFilter); len(r) > 0 {
				m.personaFilter = string(r[:len(r)-1])
				m.personaCursor = 0
			}

		default:
			if msg.Type == tea.KeyRunes {
				m.personaFilter += string(msg.Runes)
				m.personaCursor = 0
			}
		}
	}

	return m, nil
}

// selectPersona applies a choice. Re-selecting the active persona keeps the
// transcript.
func (m *Model) selectPersona(id string) {
	m.closePersonaSelector()
	if id != m.ctrl.Persona() {
		m.ctrl.ChangePersona(id)
	}
	m.syncFocus()
	m.syncViewport()
}

// filteredPersonas returns the catalog filtered by personaFilter
func (m Model) filteredPersonas() []config.Persona {
	if m.personaFilter == "" {
		return m.catalog.Personas
	}

	filter := strings.ToLower(m.personaFilter)
	var filtered []config.Persona
	for _, p := range m.catalog.Personas {
		if strings.Contains(strings.ToLower(p.DisplayName()), filter) ||
			strings.Contains(strings.ToLower(p.ID), filter) ||
			strings.Contains(strings.ToLower(p.Description), filter) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (m Model) renderPersonaSelector() string {
	width := m.width - 8
	if width < 40 {
		width = 40
	}

	var content strings.Builder
	current := m.ctrl.Persona()

	content.WriteString(selectorTitleStyle.Render("Select a persona"))
	content.WriteString(hintStyle.Render(fmt.Sprintf("  (current: %s)", m.catalog.Label(current))))
	content.WriteString("\n\n")

	if m.personaFilter != "" {
		content.WriteString(inputLabelStyle.Render("filter:") + m.personaFilter + "_")
		content.WriteString("\n\n")
	}

	filtered := m.filteredPersonas()
	if len(filtered) == 0 {
		content.WriteString(hintStyle.Render("  No personas match filter"))
		content.WriteString("\n")
	}

	startIdx := 0
	if m.personaCursor >= maxSelectorItems {
		startIdx = m.personaCursor - maxSelectorItems + 1
	}
	endIdx := startIdx + maxSelectorItems
	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	if startIdx > 0 {
		content.WriteString(hintStyle.Render("  ↑ more above"))
		content.WriteString("\n")
	}

	for i := startIdx; i < endIdx; i++ {
		p := filtered[i]
		cursor := "  "
		nameStyle := selectorItemStyle
		if i == m.personaCursor {
			cursor = selectorCursorStyle.Render("▸ ")
			nameStyle = selectorSelectedStyle
		}

		line := cursor + nameStyle.Render(p.DisplayName())
		if p.ID == current {
			line += selectorCurrentStyle.Render(" (active)")
		}
		if p.Description != "" {
			maxDesc := width - lipgloss.Width(line) - 8
			if maxDesc > 10 {
				line += hintStyle.Render(" - " + truncate(p.Description, maxDesc))
			}
		}

		content.WriteString(line)
		content.WriteString("\n")
	}

	if endIdx < len(filtered) {
		content.WriteString(hintStyle.Render("  ↓ more below"))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("↑↓") + statusDescStyle.Render(" Navigate"),
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Select"),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Cancel"),
	}
	content.WriteString(strings.Join(shortcuts, "  │  "))

	return selectorBoxStyle.Width(width).Render(content.String())
}

// truncate shortens s to maxLen runes, adding "..." when cut
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
