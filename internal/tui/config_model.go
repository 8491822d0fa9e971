package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/personachat/internal/config"
	"github.com/diogo/personachat/internal/render"
)

// configView is the screen shown by the config editor
type configView int

const (
	viewMain configView = iota
	viewPersonaSelect
	viewStyleSelect    // markdown style
	viewTUIThemeSelect // TUI color theme
)

// Menu item indices for the main view
const (
	menuDefaultPersona = iota
	menuCopyToClipboard
	menuMarkdownStyle
	menuTUITheme
	menuExit
	menuItemCount
)

// choice is one row of a selection sub-menu
type choice struct {
	name        string
	description string
}

// ConfigModel edits the persisted settings
type ConfigModel struct {
	config  config.Config
	catalog *config.PersonaCatalog
	save    func(config.Config) error

	configPath    string
	personasPath  string
	personasExist bool
	logPath       string

	view           configView
	cursor         int
	personaCursor  int
	styleCursor    int
	tuiThemeCursor int

	feedback    string
	feedbackErr bool

	width  int
	height int
	ready  bool
}

// NewConfigModel creates the editor with every cursor on the current value
// and applies the configured TUI theme.
func NewConfigModel(cfg config.Config, catalog *config.PersonaCatalog) ConfigModel {
	if catalog == nil {
		catalog = config.DefaultCatalog()
	}

	configPath, _ := config.GetConfigPath()
	personasPath, _ := config.GetPersonasPath()
	logPath, _ := config.GetLogPath(cfg)

	personasExist := false
	if personasPath != "" {
		if _, err := os.Stat(personasPath); err == nil {
			personasExist = true
		}
	}

	theme := cfg.TUITheme
	if theme == "" {
		theme = render.DefaultTUITheme
	}
	if render.SetTUITheme(theme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:         cfg,
		catalog:        catalog,
		save:           config.SaveConfig,
		configPath:     configPath,
		personasPath:   personasPath,
		personasExist:  personasExist,
		logPath:        logPath,
		view:           viewMain,
		personaCursor:  indexOf(catalog.IDs(), catalog.Initial(cfg.DefaultPersona)),
		styleCursor:    indexOf(render.StyleNames(), render.EffectiveStyle(cfg.MarkdownStyle, cfg.TUITheme)),
		tuiThemeCursor: indexOf(render.TUIThemeNames(), theme),
	}
}

func indexOf(items []string, want string) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""
		m.feedbackErr = false

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view != viewMain {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.moveCursor(-1)

		case "down", "j":
			m.moveCursor(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// moveCursor moves the cursor of the current view, wrapping at both ends
func (m *ConfigModel) moveCursor(delta int) {
	var cursor *int
	var n int

	switch m.view {
	case viewMain:
		cursor, n = &m.cursor, menuItemCount
	case viewPersonaSelect:
		cursor, n = &m.personaCursor, len(m.catalog.Personas)
	case viewStyleSelect:
		cursor, n = &m.styleCursor, len(render.StyleNames())
	case viewTUIThemeSelect:
		cursor, n = &m.tuiThemeCursor, len(render.TUIThemeNames())
	}

	if n == 0 {
		return
	}
	*cursor = (*cursor + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	switch m.view {
	case viewMain:
		switch m.cursor {
		case menuDefaultPersona:
			m.view = viewPersonaSelect
		case menuCopyToClipboard:
			m.config.CopyToClipboard = !m.config.CopyToClipboard
			return m.persist("Copy to clipboard " + enabledText(m.config.CopyToClipboard))
		case menuMarkdownStyle:
			m.view = viewStyleSelect
		case menuTUITheme:
			m.view = viewTUIThemeSelect
		case menuExit:
			return m, tea.Quit
		}
		return m, nil

	case viewPersonaSelect:
		m.view = viewMain
		if m.personaCursor >= len(m.catalog.Personas) {
			return m, nil
		}
		p := m.catalog.Personas[m.personaCursor]
		m.config.DefaultPersona = p.ID
		return m.persist(fmt.Sprintf("Default persona set to %s", p.DisplayName()))

	case viewStyleSelect:
		m.view = viewMain
		m.config.MarkdownStyle = render.StyleNames()[m.styleCursor]
		return m.persist(fmt.Sprintf("Markdown style set to %s", m.config.MarkdownStyle))

	case viewTUIThemeSelect:
		m.view = viewMain
		selected := render.TUIThemeNames()[m.tuiThemeCursor]
		m.config.TUITheme = selected

		// restyle the editor right away
		render.SetTUITheme(selected)
		UpdateTheme()

		return m.persist(fmt.Sprintf("TUI theme set to %s", selected))
	}

	return m, nil
}

// persist saves the config and reports the outcome in the feedback line
func (m ConfigModel) persist(done string) (tea.Model, tea.Cmd) {
	if err := m.save(m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		m.feedbackErr = true
	} else {
		m.feedback = done
		m.feedbackErr = false
	}
	return m, clearFeedback()
}

func enabledText(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// View renders the TUI
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	// ═══════════════════════════════════════════════════════════════
	// HEADER
	// ═══════════════════════════════════════════════════════════════
	header := configHeaderStyle.Width(contentWidth).Render(configTitleStyle.Render("✦ Configuration"))
	sections = append(sections, header)

	// ═══════════════════════════════════════════════════════════════
	// PATHS PANEL
	// ═══════════════════════════════════════════════════════════════
	personasStatus := configValueStyle.Render("built-in catalog")
	if m.personasExist {
		personasStatus = configStatusOkStyle.Render("✓ exists")
	}
	paths := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		fmt.Sprintf("  Config:   %s", configPathStyle.Render(m.configPath)),
		fmt.Sprintf("  Personas: %s  %s", configPathStyle.Render(m.personasPath), personasStatus),
		fmt.Sprintf("  Log:      %s", configPathStyle.Render(m.logPath)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))

	// ═══════════════════════════════════════════════════════════════
	// SETTINGS PANEL
	// ═══════════════════════════════════════════════════════════════
	var settings string
	switch m.view {
	case viewMain:
		settings = m.renderMainMenu()
	case viewPersonaSelect:
		settings = m.renderPersonaSelect()
	case viewStyleSelect:
		settings = m.renderStyleSelect()
	case viewTUIThemeSelect:
		settings = m.renderTUIThemeSelect()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(settings))

	if m.feedback != "" {
		if m.feedbackErr {
			sections = append(sections, errorStyle.MarginTop(1).Render("✗ "+m.feedback))
		} else {
			sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
		}
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// menuLine renders one row with the cursor marker when selected
func menuLine(selected bool, label, value string) string {
	cursor := "  "
	style := configMenuItemStyle
	if selected {
		cursor = configCursorStyle.Render("▸ ")
		style = configMenuSelectedStyle
	}
	if value == "" {
		return cursor + style.Render(label)
	}
	return cursor + style.Render(fmt.Sprintf("%-20s", label)) + value
}

func (m ConfigModel) renderMainMenu() string {
	style := render.EffectiveStyle(m.config.MarkdownStyle, m.config.TUITheme)
	styleValue := configValueStyle.Render(style)
	if m.config.MarkdownStyle == "" {
		styleValue += configPathStyle.Render("  (follows TUI theme)")
	}

	theme := m.config.TUITheme
	if theme == "" {
		theme = render.DefaultTUITheme
	}

	clipboardValue := configDisabledStyle.Render("disabled")
	if m.config.CopyToClipboard {
		clipboardValue = configEnabledStyle.Render("enabled")
	}

	persona := m.catalog.Initial(m.config.DefaultPersona)

	lines := []string{
		configSectionTitleStyle.Render("Settings"),
		"",
		menuLine(m.cursor == menuDefaultPersona, "Default Persona", configValueStyle.Render(m.catalog.Label(persona))),
		menuLine(m.cursor == menuCopyToClipboard, "Copy to Clipboard", clipboardValue),
		menuLine(m.cursor == menuMarkdownStyle, "Markdown Style", styleValue),
		menuLine(m.cursor == menuTUITheme, "TUI Theme", configValueStyle.Render(theme)),
		"",
		menuLine(m.cursor == menuExit, "Exit", ""),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderChoices draws a selection sub-menu and marks the current value
func renderChoices(title string, choices []choice, cursor int, current string) string {
	lines := []string{configSectionTitleStyle.Render(title), ""}
	for i, c := range choices {
		text := c.name
		if c.description != "" {
			text = fmt.Sprintf("%s - %s", c.name, c.description)
		}
		line := menuLine(i == cursor, text, "")
		if c.name == current {
			line += configStatusOkStyle.Render(" (current)")
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m ConfigModel) renderPersonaSelect() string {
	choices := make([]choice, 0, len(m.catalog.Personas))
	for _, p := range m.catalog.Personas {
		choices = append(choices, choice{name: p.ID, description: p.DisplayName()})
	}
	return renderChoices("Select Default Persona", choices, m.personaCursor, m.catalog.Initial(m.config.DefaultPersona))
}

func (m ConfigModel) renderStyleSelect() string {
	styles := render.AvailableStyles()
	choices := make([]choice, 0, len(styles))
	for _, s := range styles {
		choices = append(choices, choice{name: s.Name, description: s.Description})
	}
	current := render.EffectiveStyle(m.config.MarkdownStyle, m.config.TUITheme)
	return renderChoices("Select Markdown Style", choices, m.styleCursor, current)
}

func (m ConfigModel) renderTUIThemeSelect() string {
	names := render.TUIThemeNames()
	choices := make([]choice, 0, len(names))
	for _, name := range names {
		theme, _ := render.GetTUIThemeByName(name)
		choices = append(choices, choice{name: name, description: theme.Description})
	}
	current := m.config.TUITheme
	if current == "" {
		current = render.DefaultTUITheme
	}
	return renderChoices("Select TUI Theme", choices, m.tuiThemeCursor, current)
}

func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view != viewMain {
		back = "Back"
	}

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return configStatusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunConfig starts the config editor
func RunConfig(ctx context.Context, cfg config.Config, catalog *config.PersonaCatalog) error {
	p := tea.NewProgram(
		NewConfigModel(cfg, catalog),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
