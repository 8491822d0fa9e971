package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/personachat/internal/config"
	"github.com/diogo/personachat/internal/controller"
	"github.com/diogo/personachat/internal/models"
	"github.com/diogo/personachat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

type (
	// settledMsg carries a finished exchange back to the UI loop
	settledMsg struct {
		outcome controller.Outcome
	}
	feedbackClearMsg struct{}
)

const feedbackTimeout = 2 * time.Second

// Model is the chat window. It renders the controller's state and forwards
// user intent to it; the controller owns the transcript.
type Model struct {
	ctrl    *controller.Controller
	catalog *config.PersonaCatalog
	host    string

	renderOpts render.Options
	copyText   func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready          bool
	animationFrame int
	lastRevision   uint64
	feedback       string

	// Persona selector
	selectingPersona bool
	personaCursor    int
	personaFilter    string

	showHelp bool
	lastErr  error

	width  int
	height int
}

// NewChatModel creates the chat window for a started controller
func NewChatModel(ctrl *controller.Controller, catalog *config.PersonaCatalog, host string) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	// Enter submits; Alt+Enter and Ctrl+J add a line
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctrl:       ctrl,
		catalog:    catalog,
		host:       host,
		renderOpts: render.DefaultOptions(),
		copyText:   clipboard.WriteAll,
		textarea:   ta,
		spinner:    s,
	}
}

// WithRenderOptions sets the markdown options used by the help overlay
func (m Model) WithRenderOptions(opts render.Options) Model {
	m.renderOpts = opts
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

func clearFeedback() tea.Cmd {
	return tea.Tick(feedbackTimeout, func(time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.selectingPersona {
		return m.updatePersonaSelection(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "ctrl+c":
				return m.quit()
			case "f1", "esc", "q":
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m.quit()

		case "esc":
			if m.ctrl.Loading() {
				m.ctrl.Cancel()
				return m, nil
			}
			return m.quit()

		case "enter", "ctrl+s":
			return m.submit()

		case "ctrl+p":
			m.openPersonaSelector()
			return m, nil

		case "ctrl+y":
			return m.copyLastReply()

		case "f1":
			m.showHelp = true
			return m, nil
		}

	case settledMsg:
		m.settle(msg.outcome)

	case feedbackClearMsg:
		m.feedback = ""

	case spinner.TickMsg:
		if m.ctrl.Loading() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.ctrl.Loading() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	m.syncFocus()

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if m.ctrl.InputFocused() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.syncViewport()

	return m, tea.Batch(cmds...)
}

// submit hands the input to the controller. Enter and Ctrl+S both land here.
func (m Model) submit() (tea.Model, tea.Cmd) {
	sub, ok := m.ctrl.Submit(m.textarea.Value(), m.ctrl.Persona())
	if !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.animationFrame = 0
	m.syncFocus()
	m.syncViewport()

	return m, tea.Batch(
		m.dispatch(sub),
		m.spinner.Tick,
		animationTick(),
	)
}

// dispatch runs the backend call off the UI loop
func (m Model) dispatch(sub *controller.Submission) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return settledMsg{outcome: ctrl.Dispatch(sub)}
	}
}

// settle applies a finished exchange and keeps its error for the help overlay
func (m *Model) settle(out controller.Outcome) {
	if m.ctrl.Settle(out) && out.Err != nil {
		m.lastErr = out.Err
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Close()
	return m, tea.Quit
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	text, ok := m.ctrl.LastBotMessage()
	if !ok {
		return m, nil
	}

	if err := m.copyText(text); err != nil {
		m.feedback = fmt.Sprintf("Failed to copy: %v", err)
	} else {
		m.feedback = "Copied last reply"
	}
	return m, clearFeedback()
}

// syncFocus gives the textarea focus exactly when the controller accepts input
func (m *Model) syncFocus() {
	if m.ctrl.InputFocused() {
		if !m.textarea.Focused() {
			m.textarea.Focus()
		}
	} else if m.textarea.Focused() {
		m.textarea.Blur()
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 6
	statusHeight := 2
	padding := 2

	vpHeight := height - headerHeight - inputHeight - statusHeight - padding
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := width - 4

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = transcriptKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)

	m.refreshViewport()
}

// transcriptKeyMap scrolls the transcript with keys the input never uses.
// Letter and space bindings of the default map would fire while typing.
func transcriptKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}
}

// syncViewport re-renders the transcript when it changed and scrolls to the
// newest entry.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	rev := m.ctrl.Revision()
	if rev == m.lastRevision {
		return
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.lastRevision = m.ctrl.Revision()
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// renderTranscript draws one bubble per entry. Entry text is shown as is.
func (m Model) renderTranscript() string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}
	botLabel := m.catalog.Label(m.ctrl.Persona())

	for i, msg := range m.ctrl.Transcript() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.IsUser() {
			content.WriteString(userLabelStyle.Render("You"))
			content.WriteString("\n")
			content.WriteString(userBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		} else {
			content.WriteString(entryLabelStyle(msg).Render(botLabel))
			content.WriteString("\n")
			content.WriteString(botBubbleStyle.Width(bubbleWidth).Render(msg.Text))
		}
		content.WriteString("\n")
	}

	return content.String()
}

// entryLabelStyle picks the label style of a bot entry
func entryLabelStyle(msg models.Message) lipgloss.Style {
	if msg.Failed {
		return errorStyle
	}
	return botLabelStyle
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	if m.selectingPersona {
		return m.renderPersonaSelector()
	}

	if m.showHelp {
		return m.renderHelp()
	}

	contentWidth := m.width - 4
	var sections []string

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Persona Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.catalog.Label(m.ctrl.Persona())),
		hintStyle.Render("  •  "),
		hintStyle.Render(m.host),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	var inputContent string
	if m.ctrl.Loading() {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			m.renderLoadingAnimation(),
			m.renderSendControl(),
		)
	} else {
		inputContent = lipgloss.JoinVertical(lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
			m.renderSendControl(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderSendControl draws the send button from the controller's state
func (m Model) renderSendControl() string {
	if m.ctrl.SendEnabled() {
		return sendEnabledStyle.Render("[ Send ⏎ ]")
	}
	return sendDisabledStyle.Render("[ Send ⏎ ]")
}

func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots += lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●")
		} else {
			dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).
		Render(fmt.Sprintf(" %s is typing ", m.catalog.Label(m.ctrl.Persona())))

	return fmt.Sprintf("%s %s %s  %s", spin, text, dots, hintStyle.Render("esc to cancel"))
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+P", "Persona"},
		{"Ctrl+Y", "Copy"},
		{"F1", "Help"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
	if m.feedback == "" {
		return bar
	}
	return lipgloss.JoinVertical(lipgloss.Left, bar, feedbackStyle.Width(width).Align(lipgloss.Center).Render(m.feedback))
}

// RunChat starts the controller and runs the chat window until the user
// quits or ctx is cancelled.
func RunChat(ctx context.Context, ctrl *controller.Controller, catalog *config.PersonaCatalog, host string, renderOpts render.Options) error {
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	defer ctrl.Close()

	m := NewChatModel(ctrl, catalog, host).WithRenderOptions(renderOpts)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
