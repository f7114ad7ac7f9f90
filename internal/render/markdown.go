// Package render adapts stripped display text for terminal output. The
// actual markdown-to-ANSI conversion and sanitization is delegated to
// glamour; this package's contract with it is that the input already has
// all directive syntax stripped (see the annotate package) and that
// unrelated markdown passes through intact.
package render

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"persona/internal/logging"
)

// Markdown wraps a glamour renderer with the fallbacks the chat view needs:
// a nil renderer, a render error, or a glamour panic all degrade to the
// plain input text rather than blanking the message.
type Markdown struct {
	renderer *glamour.TermRenderer
}

// NewMarkdown builds a renderer wrapped to the given width using the
// terminal's detected style. A construction failure is not fatal; the
// returned Markdown renders plain text.
func NewMarkdown(width int) *Markdown {
	if width < 10 {
		width = 10
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logging.Get(logging.CategoryRender).Warn("glamour init failed, falling back to plain text: %v", err)
		return &Markdown{}
	}
	return &Markdown{renderer: renderer}
}

// Render converts markdown to ANSI-styled terminal text with panic
// recovery. On any failure the input is returned unchanged.
func (m *Markdown) Render(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Get(logging.CategoryRender).Warn("glamour panic recovered: %v", r)
			result = content
		}
	}()

	if m.renderer != nil && content != "" {
		rendered, err := m.renderer.Render(content)
		if err == nil {
			return rendered
		}
		logging.RenderDebug("glamour render error, using plain text: %v", err)
	}
	return content
}

// CSVTable converts a detected raw CSV block into a markdown table so the
// spreadsheet widget can go through the same glamour pipeline as prose.
// The conversion follows the same loose comma-splitting as detection; it is
// presentational, not a CSV parser.
func CSVTable(rawBlock string) string {
	var rows [][]string
	cols := 0
	for _, line := range strings.Split(rawBlock, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		if len(cells) > cols {
			cols = len(cells)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || cols == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = strings.ReplaceAll(cells[i], "|", "\\|")
			}
			sb.WriteString(" " + cell + " |")
		}
		sb.WriteString("\n")
	}

	writeRow(rows[0])
	sb.WriteString("|")
	for i := 0; i < cols; i++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")
	for _, row := range rows[1:] {
		writeRow(row)
	}
	return sb.String()
}
