// Slash commands for the chat interface.
package main

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"persona/internal/logging"
	"persona/internal/types"
)

const chatHelp = `## Commands

| Command | Description |
|---------|-------------|
| /check <n> | Check off checklist item n |
| /key <n> | Ask about keyword n |
| /btn <n> | Press button n |
| /sources | Show references from the last reply |
| /csv | Show the raw CSV block from the last reply |
| /memory | Show what this persona remembers about you |
| /personas | List available personas |
| /session new | Start a fresh session |
| /debug | Toggle debug logging to ~/.persona/logs/ |
| /clear | Clear the screen (history is kept on disk) |
| /help | Show this help |
| /quit | Exit |

Widget numbers are the [n] markers printed next to checklists, keywords
and buttons.`

func (m chatModel) handleCommand(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit", "/q":
		return m, tea.Quit

	case "/help":
		m.assistantNote(chatHelp)
		return m, nil

	case "/clear":
		m.history = nil
		m.refreshViewport()
		return m, nil

	case "/check":
		return m.handleWidgetClick(parts, widgetChecklist)

	case "/key":
		return m.handleWidgetClick(parts, widgetKeyword)

	case "/btn":
		return m.handleWidgetClick(parts, widgetButton)

	case "/sources":
		m.assistantNote(m.describeSources())
		return m, nil

	case "/csv":
		m.assistantNote(m.describeCSV())
		return m, nil

	case "/memory":
		m.assistantNote(m.describeMemories())
		return m, nil

	case "/personas":
		var sb strings.Builder
		sb.WriteString("## Personas\n\n")
		for _, def := range m.registry.List() {
			marker := "-"
			if def.Name == m.def.Name {
				marker = "●"
			}
			sb.WriteString(fmt.Sprintf("%s **%s** %s\n", marker, def.Name, def.Description))
		}
		sb.WriteString("\nRestart with `persona -p <name>` to switch.")
		m.assistantNote(sb.String())
		return m, nil

	case "/debug":
		m.cfg.Logging.DebugMode = !m.cfg.Logging.DebugMode
		if err := m.cfg.Save(resolveHome()); err != nil {
			m.err = err
			return m, nil
		}
		if err := logging.ReloadConfig(); err != nil {
			m.err = err
			return m, nil
		}
		state := "off"
		if logging.IsDebugMode() {
			state = "on"
		}
		m.assistantNote("Debug logging is now " + state + ".")
		return m, nil

	case "/session":
		if len(parts) >= 2 && parts[1] == "new" {
			if err := m.newSession(); err != nil {
				m.err = err
				return m, nil
			}
			m.cache.InvalidateAll()
			m.refreshViewport()
			m.assistantNote("Started a fresh session.")
			return m, nil
		}
		m.assistantNote("Usage: `/session new`")
		return m, nil

	default:
		m.assistantNote(fmt.Sprintf("Unknown command: `%s`. Type `/help` for available commands.", cmd))
		return m, nil
	}
}

// handleWidgetClick routes /check, /key and /btn to the dispatcher.
func (m chatModel) handleWidgetClick(parts []string, kind widgetKind) (tea.Model, tea.Cmd) {
	usage := map[widgetKind]string{
		widgetChecklist: "Usage: `/check <n>`",
		widgetKeyword:   "Usage: `/key <n>`",
		widgetButton:    "Usage: `/btn <n>`",
	}

	if len(parts) < 2 {
		m.assistantNote(usage[kind])
		return m, nil
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		m.assistantNote(usage[kind])
		return m, nil
	}
	w, ok := m.widget(n, kind)
	if !ok {
		m.assistantNote(fmt.Sprintf("No such widget: %d. Widget numbers are the [n] markers in the chat.", n))
		return m, nil
	}

	switch kind {
	case widgetChecklist:
		if !m.dispatcher.ChecklistClick(w.text) {
			m.assistantNote(fmt.Sprintf("Already done: %s", w.text))
			return m, nil
		}
		// Checked-state is keyed by text: any message may render differently.
		m.cache.InvalidateAll()
		m.refreshViewport()

	case widgetKeyword:
		m.dispatcher.KeywordClick(w.text)

	case widgetButton:
		m.dispatcher.ButtonClick(w.payload)
	}

	return m, m.drainOutbox()
}

// lastAssistantAnnotation returns the annotation of the newest assistant
// message, if any.
func (m *chatModel) lastAssistantAnnotation() (types.MessageAnnotations, bool) {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].Role == types.RoleAssistant {
			return m.cache.Annotate(m.history[i], m.dispatcher.Snapshot()), true
		}
	}
	return types.MessageAnnotations{}, false
}

func (m *chatModel) describeSources() string {
	ann, ok := m.lastAssistantAnnotation()
	if !ok || !ann.HasReferences {
		return "The last reply has no references."
	}
	if len(ann.References) == 0 {
		return "The last reply cites sources in prose, but lists none explicitly."
	}
	var sb strings.Builder
	sb.WriteString("## Sources\n\n")
	for _, ref := range ann.References {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", ref.Title, ref.Description))
	}
	return sb.String()
}

func (m *chatModel) describeCSV() string {
	ann, ok := m.lastAssistantAnnotation()
	if !ok || ann.CSV == nil {
		return "The last reply has no CSV data."
	}
	return "```csv\n" + ann.CSV.RawBlock + "\n```"
}

func (m *chatModel) describeMemories() string {
	mems, err := m.db.Memories(m.def.Name)
	if err != nil || len(mems) == 0 {
		return fmt.Sprintf("%s has no persisted memories about you yet.", m.def.Name)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## What %s remembers\n\n", m.def.Name))
	for _, mem := range mems {
		if mem.Importance > 0 {
			sb.WriteString(fmt.Sprintf("- **%s**: %s _(importance %d)_\n", mem.Key, mem.Value, mem.Importance))
		} else {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", mem.Key, mem.Value))
		}
	}
	return sb.String()
}
