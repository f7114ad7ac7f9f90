// Session lifecycle and backend plumbing for the chat interface.
package main

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"persona/internal/logging"
	"persona/internal/types"
)

// openSession resumes the persona's latest session or starts a fresh one.
// The greeting is only inserted into brand-new sessions.
func (m *chatModel) openSession() error {
	if sess, err := m.db.LatestSession(m.def.Name); err == nil {
		msgs, err := m.db.Messages(sess.ID)
		if err != nil {
			return err
		}
		m.session = sess
		m.history = msgs
		logging.Session("resumed session %s (%d messages)", sess.ID, len(msgs))
		return nil
	}
	return m.newSession()
}

// newSession creates a session and seeds it with the persona's greeting.
func (m *chatModel) newSession() error {
	sess, err := m.db.CreateSession(m.def.Name, time.Now().Format("Jan 2 15:04"))
	if err != nil {
		return err
	}
	m.session = sess
	m.history = nil

	if m.def.Greeting != "" {
		greeting, err := m.db.AppendMessage(types.Message{
			SessionID: sess.ID,
			Role:      types.RoleAssistant,
			Content:   m.def.Greeting,
		})
		if err == nil {
			m.history = append(m.history, greeting)
		}
	}

	if len(m.def.SuggestedPrompts) > 0 {
		var sb strings.Builder
		sb.WriteString("_Try asking:_\n")
		for _, p := range m.def.SuggestedPrompts {
			sb.WriteString("- " + p + "\n")
		}
		m.assistantNote(sb.String())
	}
	return nil
}

// appendMessage persists one message and adds it to the in-memory history,
// returning the stored record (with ID and timestamp filled in).
// Persistence failures degrade to in-memory only; the conversation keeps
// going.
func (m *chatModel) appendMessage(msg types.Message) types.Message {
	msg.SessionID = m.session.ID
	stored, err := m.db.AppendMessage(msg)
	if err != nil {
		logging.Get(logging.CategorySession).Warn("message not persisted: %v", err)
		stored = msg
		if stored.ID == "" {
			stored.ID = "mem_" + time.Now().Format("150405.000000")
		}
	}
	m.history = append(m.history, stored)
	return stored
}

// systemPrompt is the persona's instruction block plus any persisted
// memories about the user.
func (m chatModel) systemPrompt() string {
	return m.def.SystemPrompt + m.db.MemoryPrompt(m.def.Name)
}

// requestReply asks the backend for the next assistant message.
func (m chatModel) requestReply() tea.Cmd {
	system := m.systemPrompt()
	history := append([]types.Message(nil), m.history...)
	backend := m.backend
	sessionID := m.session.ID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		timer := logging.StartTimer(logging.CategoryTransport, "backend reply")
		content, err := backend.Reply(ctx, system, history)
		timer.StopWithThreshold(10 * time.Second)
		if err != nil {
			return errorMsg(err)
		}

		return replyMsg(types.Message{
			SessionID: sessionID,
			Role:      types.RoleAssistant,
			Content:   content,
		})
	}
}

// saveReplyMemories persists any memory directives carried by an assistant
// reply. Called once per reply, right after it lands in history.
func (m *chatModel) saveReplyMemories(msg types.Message) {
	ann := m.cache.Annotate(msg, m.dispatcher.Snapshot())
	if len(ann.Memories) == 0 {
		return
	}
	saved := m.db.SaveMemories(m.def.Name, ann.Memories)
	logging.Session("persisted %d/%d memory directives for %s", saved, len(ann.Memories), m.def.Name)
}
