// Widget rendering for annotated assistant messages. Detections become
// numbered entries so they stay clickable from a keyboard: /check 2,
// /key 1, /btn 3 act on the numbers printed here.
package main

import (
	"fmt"
	"strings"

	"persona/internal/annotate"
	"persona/internal/render"
	"persona/internal/types"
)

type widgetKind int

const (
	widgetChecklist widgetKind = iota
	widgetKeyword
	widgetButton
)

// widgetRef is one numbered interactive widget on screen.
type widgetRef struct {
	kind    widgetKind
	text    string // checklist text or keyword text
	payload string // button payload
	label   string // button label
}

// renderHistory renders the conversation and rebuilds the numbered widget
// list as a side effect. Numbers are assigned in render order, so they are
// stable until the next assistant reply arrives.
func (m *chatModel) renderHistory() string {
	var sb strings.Builder
	m.widgets = m.widgets[:0]
	checked := m.dispatcher.Snapshot()

	for _, msg := range m.history {
		switch msg.Role {
		case types.RoleUser:
			userStyle := m.styles.Bold.Foreground(m.styles.Theme.Primary).MarginTop(1)
			sb.WriteString(userStyle.Render("You") + "\n")
			sb.WriteString(m.styles.UserInput.Render(msg.Content))
			sb.WriteString("\n")

		case types.RoleAssistant:
			nameStyle := m.styles.Bold.Foreground(m.styles.Theme.Accent).MarginTop(1)
			sb.WriteString(nameStyle.Render(m.def.Name) + "\n")

			ann := m.cache.Annotate(msg, checked)
			body := strings.TrimRight(m.markdown.Render(ann.DisplayText), "\n")
			sb.WriteString(m.styles.PersonaResponse.Render(body) + "\n")
			sb.WriteString(m.renderWidgets(ann))

		default:
			// Local notices (command output).
			sb.WriteString("\n" + m.markdown.Render(msg.Content))
		}
	}

	return sb.String()
}

// renderWidgets renders one message's widget panel and registers its
// interactive entries in the numbered widget list.
func (m *chatModel) renderWidgets(ann types.MessageAnnotations) string {
	if ann.IsEmpty() {
		return ""
	}
	var sb strings.Builder

	if ann.CSV != nil {
		sb.WriteString("\n" + m.styles.Subtitle.Render("spreadsheet") + "\n")
		sb.WriteString(m.markdown.Render(render.CSVTable(ann.CSV.RawBlock)))
	}

	if ann.PDF != nil {
		sb.WriteString("\n" + m.styles.Info.Render("📄 PDF: "+summarizeSource(ann.PDF.Source)) + "\n")
	}

	if len(ann.References) > 0 {
		sb.WriteString("\n" + m.styles.Subtitle.Render("sources") + "\n")
		for _, ref := range ann.References {
			sb.WriteString(m.styles.Reference.Render("  "+ref.Title+": "+ref.Description) + "\n")
		}
	}

	for _, item := range ann.Checklist {
		n := m.addWidget(widgetRef{kind: widgetChecklist, text: item.Text})
		mark := annotate.UncheckedMark
		style := m.styles.ChecklistPending
		if item.Checked {
			mark = annotate.CheckedMark
			style = m.styles.ChecklistDone
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			m.styles.WidgetIndex.Render(fmt.Sprintf("[%d]", n)),
			mark,
			style.Render(item.Text)))
	}

	if len(ann.Keywords) > 0 {
		var parts []string
		for _, kw := range ann.Keywords {
			n := m.addWidget(widgetRef{kind: widgetKeyword, text: kw.Text})
			parts = append(parts,
				m.styles.WidgetIndex.Render(fmt.Sprintf("[%d]", n))+" "+m.styles.Keyword.Render(kw.Text))
		}
		sb.WriteString(strings.Join(parts, "  ") + "\n")
	}

	if len(ann.Buttons) > 0 {
		var parts []string
		for _, btn := range ann.Buttons {
			n := m.addWidget(widgetRef{kind: widgetButton, label: btn.Label, payload: btn.Payload})
			parts = append(parts,
				m.styles.WidgetIndex.Render(fmt.Sprintf("[%d]", n))+" "+m.styles.Button.Render(btn.Label))
		}
		sb.WriteString(strings.Join(parts, "  ") + "\n")
	}

	return sb.String()
}

// addWidget registers a widget and returns its 1-based number.
func (m *chatModel) addWidget(w widgetRef) int {
	m.widgets = append(m.widgets, w)
	return len(m.widgets)
}

// widget resolves a 1-based widget number of the expected kind.
func (m *chatModel) widget(n int, kind widgetKind) (widgetRef, bool) {
	if n < 1 || n > len(m.widgets) {
		return widgetRef{}, false
	}
	w := m.widgets[n-1]
	if w.kind != kind {
		return widgetRef{}, false
	}
	return w, true
}

// summarizeSource shortens data URLs for the PDF notice line.
func summarizeSource(source string) string {
	if strings.HasPrefix(source, "data:application/pdf") {
		return fmt.Sprintf("inline document (%d bytes encoded)", len(source))
	}
	return source
}
