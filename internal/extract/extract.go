// Package extract implements one pure extraction function per detection
// kind. Each function takes raw message text (plus, for checklists, the
// session's checked-set) and returns zero or more typed detection records.
//
// Extractors never mutate shared state and never fail: a malformed directive
// is dropped silently from its detection list rather than aborting the rest
// of the message.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"persona/internal/pattern"
	"persona/internal/types"
)

// CSV returns the CSV detection for the message, or nil.
//
// Fenced code blocks are tried first, in order of appearance; the first
// block whose body passes LooksLikeCSV wins. If no fenced block qualifies,
// the heuristic is applied to the whole message as a fallback, gated on the
// text containing both a newline and a comma. Extraction stops at the first
// qualifying candidate across both passes.
func CSV(text string) *types.CSVDetection {
	for _, m := range pattern.Default.FencedCodeBlock.Find(text) {
		body := strings.TrimRight(m.Captures[1], "\r\n")
		if LooksLikeCSV(body) {
			return &types.CSVDetection{RawBlock: body}
		}
	}
	if strings.Contains(text, "\n") && strings.Contains(text, ",") && LooksLikeCSV(text) {
		return &types.CSVDetection{RawBlock: text}
	}
	return nil
}

// PDF returns the PDF detection for the message, or nil.
//
// Patterns are tried in fixed order: inline data URL, direct .pdf link,
// contextual URL (any URL following a "created/generated a PDF" phrase).
// The first pattern that matches wins. All three auto-show.
func PDF(text string) *types.PDFDetection {
	if m := pattern.Default.PDFDataURL.FindFirst(text); m != nil {
		return &types.PDFDetection{Source: text[m.Start:m.End], AutoShow: true}
	}
	if m := pattern.Default.PDFHTTPLink.FindFirst(text); m != nil {
		return &types.PDFDetection{Source: text[m.Start:m.End], AutoShow: true}
	}
	if phrase := pattern.Default.PDFContextPhrase.FindFirst(text); phrase != nil {
		// First URL after the phrase wins.
		for _, u := range pattern.Default.HTTPURL.Find(text) {
			if u.Start >= phrase.End {
				return &types.PDFDetection{Source: text[u.Start:u.End], AutoShow: true}
			}
		}
	}
	return nil
}

// References returns the structured reference entries and a presence flag.
//
// A "References:"/"Sources:"/"Citations:" section yields one entry per
// non-blank line, titled "Reference <n>" by 1-based order. "[n]: text" lines
// yield one entry each, keyed by their number. Both sets are unioned,
// section-derived entries first. Inline citation phrases ("according to X")
// only raise the presence flag; they do not produce entries.
func References(text string) ([]types.ReferenceDetection, bool) {
	var refs []types.ReferenceDetection

	if section := pattern.Default.ReferenceSection.FindFirst(text); section != nil {
		n := 0
		for _, line := range strings.Split(section.Captures[1], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			n++
			refs = append(refs, types.ReferenceDetection{
				ID:          fmt.Sprintf("section-%d", n),
				Title:       fmt.Sprintf("Reference %d", n),
				Description: line,
			})
		}
	}

	for _, m := range pattern.Default.ReferenceNumbered.Find(text) {
		refs = append(refs, types.ReferenceDetection{
			ID:          m.Captures[0],
			Title:       "Reference " + m.Captures[0],
			Description: strings.TrimSpace(m.Captures[1]),
		})
	}

	has := len(refs) > 0 || pattern.Default.ReferenceInline.Matches(text)
	return refs, has
}

// Checklist returns one detection per checklist line, in order of
// appearance. A line is checked if its marker is x/X, or if its text is
// already in the session checked-set (checked-state is keyed by text
// content, not position).
func Checklist(text string, checked map[string]bool) []types.ChecklistDetection {
	var items []types.ChecklistDetection
	for _, m := range pattern.Default.ChecklistItem.Find(text) {
		itemText := strings.TrimSpace(m.Captures[1])
		if itemText == "" {
			continue
		}
		marker := m.Captures[0]
		items = append(items, types.ChecklistDetection{
			Text:    itemText,
			Checked: marker == "x" || marker == "X" || checked[itemText],
		})
	}
	return items
}

// Keywords returns one detection per interactive keyword marker, in order
// of appearance.
func Keywords(text string) []types.KeywordDetection {
	var kws []types.KeywordDetection
	for _, m := range pattern.Default.InteractiveKeyword.Find(text) {
		kws = append(kws, types.KeywordDetection{Text: m.Captures[0]})
	}
	return kws
}

// Buttons returns one detection per action button marker, in order of
// appearance. Payload is the raw text up to the closing paren.
func Buttons(text string) []types.ButtonDetection {
	var btns []types.ButtonDetection
	for _, m := range pattern.Default.InteractiveButton.Find(text) {
		btns = append(btns, types.ButtonDetection{
			Label:   m.Captures[0],
			Payload: m.Captures[1],
		})
	}
	return btns
}

// Memories returns the well-formed memory directives and a flag reporting
// whether any directive syntax was present at all. A directive with an
// empty key or an importance outside 1-5 is dropped; the presence flag still
// reports true so the stripper removes the malformed syntax from display.
func Memories(text string) ([]types.MemoryDirective, bool) {
	matches := pattern.Default.MemoryDirective.Find(text)
	if len(matches) == 0 {
		return nil, false
	}
	var mems []types.MemoryDirective
	for _, m := range matches {
		key := strings.TrimSpace(m.Captures[0])
		if key == "" {
			continue
		}
		importance := 0
		if raw := m.Captures[2]; raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > 5 {
				continue
			}
			importance = n
		}
		mems = append(mems, types.MemoryDirective{
			Key:        key,
			Value:      strings.TrimSpace(m.Captures[1]),
			Importance: importance,
		})
	}
	return mems, true
}
