// This file implements the interactive chat interface using bubbletea.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"persona/cmd/persona/ui"
	"persona/internal/annotate"
	"persona/internal/config"
	"persona/internal/dispatch"
	"persona/internal/logging"
	"persona/internal/persona"
	"persona/internal/render"
	"persona/internal/store"
	"persona/internal/transport"
	"persona/internal/types"
)

// chatModel is the main model for the interactive chat interface
type chatModel struct {
	// UI components
	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	styles    ui.Styles
	markdown  *render.Markdown

	// Pipeline
	cache      *annotate.Cache
	dispatcher *dispatch.Dispatcher
	outbox     chan string

	// Collaborators
	backend  transport.Backend
	db       *store.Store
	registry *persona.Registry
	def      persona.Definition
	cfg      *config.UserConfig

	// State
	session   store.Session
	history   []types.Message
	widgets   []widgetRef
	isLoading bool
	err       error
	width     int
	height    int
	ready     bool
}

// Messages for tea updates
type (
	replyMsg    types.Message
	errorMsg    error
	outboundMsg string
)

// runChat wires up the pipeline and runs the bubbletea program.
func runChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	home := resolveHome()

	db, err := store.New(config.DataPath(home))
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer db.Close()

	registry := persona.NewRegistry(config.PersonasDir(home))
	defer registry.Stop()

	preferred := personaFlag
	if preferred == "" {
		preferred = cfg.DefaultPersona
	}
	def := registry.Default(preferred)

	m, err := newChatModel(cfg, db, registry, def)
	if err != nil {
		return err
	}

	logging.Boot("chat starting: persona=%s backend=%s", def.Name, m.backend.Name())
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// newChatModel builds the chat model and opens (or resumes) a session.
func newChatModel(cfg *config.UserConfig, db *store.Store, registry *persona.Registry, def persona.Definition) (chatModel, error) {
	styles := ui.NewStyles(ui.ThemeByName(cfg.Theme))

	ti := textinput.New()
	ti.Placeholder = "Say something... (Enter to send, /help for commands)"
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 4096
	ti.Width = 80
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.UserInput

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	var backend transport.Backend
	switch cfg.GetBackend() {
	case "http":
		httpCfg := transport.DefaultHTTPConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			httpCfg.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			httpCfg.Model = cfg.Model
		}
		backend = transport.NewHTTPBackend(httpCfg)
	default:
		backend = transport.NewScriptedBackend()
	}

	outbox := make(chan string, 16)
	opts := []dispatch.Option{
		dispatch.WithCheckedSink(checklistSink{db: db, enabled: cfg.PersistChecklist}),
	}
	if cfg.PersistChecklist {
		if texts, err := db.CheckedTexts(); err == nil {
			opts = append(opts, dispatch.WithChecked(texts))
		}
	}
	dispatcher := dispatch.New(func(text string) { outbox <- text }, opts...)

	m := chatModel{
		textinput:  ti,
		viewport:   vp,
		spinner:    sp,
		styles:     styles,
		markdown:   render.NewMarkdown(78),
		cache:      annotate.NewCache(),
		dispatcher: dispatcher,
		outbox:     outbox,
		backend:    backend,
		db:         db,
		registry:   registry,
		def:        def,
		cfg:        cfg,
	}

	if err := m.openSession(); err != nil {
		return m, err
	}
	return m, nil
}

// checklistSink persists checked items only when the config enables it.
type checklistSink struct {
	db      *store.Store
	enabled bool
}

func (c checklistSink) MarkChecked(text string) error {
	if !c.enabled {
		return nil
	}
	return c.db.MarkChecked(text)
}

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.watchPersonas(),
	)
}

// watchPersonas starts definition hot-reload in the background.
func (m chatModel) watchPersonas() tea.Cmd {
	return func() tea.Msg {
		if err := m.registry.Watch(rootCmd.Context()); err != nil {
			logging.Get(logging.CategoryPersona).Warn("persona watch unavailable: %v", err)
		}
		return nil
	}
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if !m.isLoading {
				return m.handleSubmit()
			}
		}

		if !m.isLoading {
			m.textinput, tiCmd = m.textinput.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		inputHeight := 3

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-headerHeight-footerHeight-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - headerHeight - footerHeight - inputHeight
		}
		m.textinput.Width = msg.Width - 4
		m.markdown = render.NewMarkdown(msg.Width - 8)
		m.refreshViewport()

	case spinner.TickMsg:
		if m.isLoading {
			m.spinner, spCmd = m.spinner.Update(msg)
			return m, spCmd
		}

	case outboundMsg:
		// A widget click produced an outbound chat message.
		return m.sendUserText(string(msg))

	case replyMsg:
		m.isLoading = false
		m.err = nil
		stored := m.appendMessage(types.Message(msg))
		m.saveReplyMemories(stored)
		m.refreshViewport()

	case errorMsg:
		m.isLoading = false
		m.err = msg
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m chatModel) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textinput.Value())
	if input == "" {
		return m, nil
	}
	m.textinput.Reset()

	if strings.HasPrefix(input, "/") {
		return m.handleCommand(input)
	}
	return m.sendUserText(input)
}

// sendUserText records a user message and requests the persona's reply.
func (m chatModel) sendUserText(text string) (tea.Model, tea.Cmd) {
	m.appendMessage(types.Message{
		SessionID: m.session.ID,
		Role:      types.RoleUser,
		Content:   text,
	})
	m.isLoading = true
	m.refreshViewport()

	return m, tea.Batch(m.spinner.Tick, m.requestReply())
}

// drainOutbox forwards one dispatcher-emitted message into the update loop.
func (m chatModel) drainOutbox() tea.Cmd {
	select {
	case text := <-m.outbox:
		return func() tea.Msg { return outboundMsg(text) }
	default:
		return nil
	}
}

// assistantNote appends a local assistant-style notice (command output,
// errors) without calling the backend. Not persisted.
func (m *chatModel) assistantNote(content string) {
	m.history = append(m.history, types.Message{
		ID:        fmt.Sprintf("note_%d", time.Now().UnixNano()),
		SessionID: m.session.ID,
		Role:      types.RoleSystem,
		Content:   content,
		CreatedAt: time.Now(),
	})
	m.refreshViewport()
}

// refreshViewport re-renders history and widgets into the viewport.
func (m *chatModel) refreshViewport() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

func (m chatModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.renderHeader()
	chatView := m.styles.Content.Render(m.viewport.View())

	if m.isLoading {
		chatView += "\n" + m.styles.Spinner.Render(m.spinner.View()) + " " + m.styles.Muted.Render(m.def.Name+" is typing...")
	}
	if m.err != nil {
		chatView += "\n" + m.styles.Error.Render("Error: "+m.err.Error())
	}

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.Theme.Accent).
		Padding(0, 1)
	inputArea := inputStyle.Render(m.textinput.View())

	footer := m.styles.Footer.Render("Enter: send • /help: commands • Ctrl+C: exit")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		chatView,
		inputArea,
		footer,
	)
}

func (m chatModel) renderHeader() string {
	title := m.styles.Header.Render(" persona ")
	name := m.styles.Badge.Render(m.def.Name)

	var status string
	if m.isLoading {
		status = m.styles.Warning.Render("● Thinking")
	} else {
		status = m.styles.Success.Render("● Ready")
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Center, title, " ", name, "  ", status)
	return lipgloss.JoinVertical(lipgloss.Left, headerLine, m.styles.RenderDivider(m.width))
}
