package tui

import (
	"context"
	"errors"
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

	"github.com/diogo/alimah/internal/chat"
	apierrors "github.com/diogo/alimah/internal/errors"
	"github.com/diogo/alimah/internal/models"
	"github.com/diogo/alimah/internal/render"
)

// sendFailedAlert is shown when a reply cannot be obtained
const sendFailedAlert = "Failed to send message. See log for details."

// Message types for the TUI
type (
	initDoneMsg struct {
		err error
	}
	replyMsg struct {
		msg models.Message
		err error
	}
	translatedMsg struct {
		lang  models.Language
		stats chat.TranslateStats
	}
	listenMsg struct {
		text string
		err  error
	}
	copiedMsg struct {
		err error
	}
	// storeChangedMsg is sent whenever the conversation store changes
	storeChangedMsg struct{}
)

// Options configures the chat view
type Options struct {
	Title          string
	ShowTimestamps bool
	// Markdown renders assistant replies when set
	Markdown *render.Options
}

// Model is the chat screen: conversation view, input box and status bar
type Model struct {
	ctx     context.Context
	session *chat.Session
	opts    Options
	keys    keyMap

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	ready        bool
	initializing bool
	initErr      error
	sending      bool
	translating  bool
	listening    bool
	inputInvalid bool
	// pendingInput is the text being sent while the input box keeps it
	pendingInput string
	alert        string
	note         string

	width  int
	height int

	now           func() time.Time
	copyClipboard func(string) error
}

// NewChatModel creates the chat model for session
func NewChatModel(ctx context.Context, session *chat.Session, opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "How are you feeling today?"
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	if opts.Title == "" {
		opts.Title = models.AssistantName
	}

	return Model{
		ctx:           ctx,
		session:       session,
		opts:          opts,
		keys:          defaultKeyMap(),
		textarea:      ta,
		spinner:       s,
		initializing:  true,
		now:           time.Now,
		copyClipboard: clipboard.WriteAll,
	}
}

// Init starts the backend check
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.initSession(),
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		if m.alert != "" {
			// The alert blocks everything until dismissed
			if key.Matches(msg, m.keys.Dismiss) {
				m.alert = ""
			} else if msg.Type == tea.KeyCtrlC {
				return m, tea.Quit
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Send):
			return m.send()

		case key.Matches(msg, m.keys.Translate):
			if m.initErr == nil && !m.translating {
				m.translating = true
				m.note = ""
				return m, tea.Batch(m.toggleLanguage(), m.spinner.Tick)
			}
			return m, nil

		case key.Matches(msg, m.keys.Speak):
			return m, m.speakLatest()

		case key.Matches(msg, m.keys.Listen):
			if m.initErr == nil && !m.listening {
				m.listening = true
				m.note = ""
				return m, tea.Batch(m.listen(), m.spinner.Tick)
			}
			return m, nil

		case key.Matches(msg, m.keys.Copy):
			return m, m.copyLatest()

		case key.Matches(msg, m.keys.ScrollUp):
			m.viewport.HalfViewUp()
			return m, nil

		case key.Matches(msg, m.keys.ScrollDn):
			m.viewport.HalfViewDown()
			return m, nil
		}

	case initDoneMsg:
		m.initializing = false
		m.initErr = msg.err
		m.refresh()

	case replyMsg:
		m.sending = false
		if msg.err != nil {
			m.alert = sendFailedAlert
			m.pendingInput = ""
		} else {
			if m.pendingInput != "" && m.textarea.Value() == m.pendingInput {
				m.textarea.Reset()
			}
			m.pendingInput = ""
		}
		m.refresh()
		m.viewport.GotoBottom()

	case translatedMsg:
		m.translating = false
		m.note = translationNote(msg.lang, msg.stats)
		m.refresh()

	case listenMsg:
		m.listening = false
		if msg.err == nil {
			m.textarea.SetValue(msg.text)
			m.textarea.CursorEnd()
		}

	case storeChangedMsg:
		// A translation pass redraws once when it completes
		if !m.translating {
			m.refresh()
		}

	case copiedMsg:
		if msg.err != nil {
			m.note = "Copy failed"
		} else {
			m.note = "Copied latest reply"
		}

	case spinner.TickMsg:
		if m.busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Key presses go to the textarea only; the viewport's own bindings would eat typed letters
	if _, ok := msg.(tea.KeyMsg); ok {
		if m.initErr == nil {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// send validates the input and starts a reply round-trip
func (m Model) send() (tea.Model, tea.Cmd) {
	if m.initializing || m.initErr != nil {
		return m, nil
	}

	text := m.textarea.Value()
	userMsg, err := m.session.BeginSend(text)
	switch {
	case errors.Is(err, apierrors.ErrEmptyInput):
		m.inputInvalid = true
		return m, nil
	case errors.Is(err, apierrors.ErrSendInFlight):
		return m, nil
	case err != nil:
		m.alert = sendFailedAlert
		return m, nil
	}

	m.inputInvalid = false
	m.sending = true
	m.note = ""
	// Input stays until the reply lands so a failed send can be retried
	m.pendingInput = text
	m.refresh()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.completeSend(userMsg), m.spinner.Tick)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 3
	inputHeight := 5
	statusHeight := 1

	vpHeight := height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 3 {
		vpHeight = 3
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
	m.refresh()
}

// refresh rebuilds the conversation view from the store
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	if m.initErr != nil {
		m.viewport.SetContent(FormatError(m.initErr))
		return
	}

	content := render.Conversation(m.session.Store().Messages(), render.ConversationOptions{
		Width:          m.viewport.Width,
		ShowTimestamps: m.opts.ShowTimestamps,
		Now:            m.now(),
		Theme:          render.GetTUITheme(),
		Markdown:       m.opts.Markdown,
	})
	m.viewport.SetContent(content)
}

func (m Model) busy() bool {
	return m.initializing || m.sending || m.translating || m.listening
}

// sendLocked reports whether Enter is currently ignored
func (m Model) sendLocked() bool {
	return m.sending && m.session.GuardEnabled()
}

func (m Model) initSession() tea.Cmd {
	return func() tea.Msg {
		return initDoneMsg{err: m.session.Init(m.ctx)}
	}
}

func (m Model) completeSend(userMsg models.Message) tea.Cmd {
	return func() tea.Msg {
		msg, err := m.session.CompleteSend(m.ctx, userMsg)
		return replyMsg{msg: msg, err: err}
	}
}

func (m Model) toggleLanguage() tea.Cmd {
	return func() tea.Msg {
		lang, stats := m.session.ToggleLanguage(m.ctx)
		return translatedMsg{lang: lang, stats: stats}
	}
}

func (m Model) speakLatest() tea.Cmd {
	return func() tea.Msg {
		_ = m.session.SpeakLatest(m.ctx)
		return nil
	}
}

func (m Model) listen() tea.Cmd {
	return func() tea.Msg {
		text, err := m.session.Listen(m.ctx)
		return listenMsg{text: text, err: err}
	}
}

func (m Model) copyLatest() tea.Cmd {
	latest, ok := m.session.Store().LatestAssistant()
	if !ok {
		return nil
	}
	write := m.copyClipboard
	return func() tea.Msg {
		return copiedMsg{err: write(latest.Content)}
	}
}

func translationNote(lang models.Language, stats chat.TranslateStats) string {
	switch {
	case stats.Requested == 0:
		return "Language: " + lang.Name()
	case stats.Failed > 0:
		return fmt.Sprintf("%s: %d translated, %d failed", lang.Name(), stats.Translated, stats.Failed)
	default:
		return fmt.Sprintf("%s: %d translated", lang.Name(), stats.Translated)
	}
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Starting...")
	}

	contentWidth := m.viewport.Width
	var sections []string

	headerParts := []string{
		titleStyle.Render("✦ " + m.opts.Title),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.session.Language().Name()),
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	var body string
	switch {
	case m.alert != "":
		body = lipgloss.Place(contentWidth, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			alertStyle.Render(errorStyle.Render(m.alert)+"\n\n"+hintStyle.Render("press esc to dismiss")))
	case m.initErr == nil && !m.initializing && m.session.Store().Len() == 0:
		body = m.renderWelcome()
	default:
		body = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(body))

	panel := inputPanelStyle
	if m.inputInvalid {
		panel = inputInvalidPanelStyle
	}
	sections = append(sections, panel.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, inputLabelStyle.Render("You"), m.textarea.View()),
	))

	sections = append(sections, m.renderStatusBar(contentWidth))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		welcomeTitleStyle.Render("Karibu! Welcome to "+m.opts.Title),
		"",
		welcomeTextStyle.Render("A safe space to share how you feel."),
		welcomeTextStyle.Render("Type a message below, or press ctrl+t to switch to Kiswahili."),
	)
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderStatusBar(width int) string {
	var left string
	switch {
	case m.initializing:
		left = m.spinner.View() + loadingStyle.Render(" connecting")
	case m.sendLocked():
		left = m.spinner.View() + loadingStyle.Render(" "+m.opts.Title+" is typing (send disabled)")
	case m.sending:
		left = m.spinner.View() + loadingStyle.Render(" "+m.opts.Title+" is typing")
	case m.translating:
		left = m.spinner.View() + loadingStyle.Render(" translating")
	case m.listening:
		left = m.spinner.View() + loadingStyle.Render(" listening")
	case m.note != "":
		left = statusNoteStyle.Render(m.note)
	}

	var items []string
	for _, b := range m.keys.shortcuts(m.session.SpeechAvailable(), m.session.ListenAvailable()) {
		h := b.Help()
		items = append(items, statusKeyStyle.Render(h.Key)+statusDescStyle.Render(" "+h.Desc))
	}
	right := strings.Join(items, statusDescStyle.Render(" │ "))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return statusBarStyle.Width(width).Render(left + "\n" + right)
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, session *chat.Session, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(ctx, session, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	// Appends also happen inside Update, so the notification must not block
	session.Store().Subscribe(func() {
		go p.Send(storeChangedMsg{})
	})
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
