// Package annotate runs every extractor over a message once and merges the
// results into a single MessageAnnotations record for the renderer.
//
// The aggregator owns three contracts the widgets depend on:
//   - gating: only assistant messages are classified, and never while their
//     content is still loading or encrypted
//   - fixed extractor order: CSV, PDF, references, checklist, keywords,
//     buttons, memory directives (order matters for the two
//     first-match-wins kinds)
//   - display text: directive syntax is stripped or transformed until none
//     remains, and stripping is idempotent
package annotate

import (
	"regexp"
	"strings"

	"persona/internal/extract"
	"persona/internal/logging"
	"persona/internal/types"
)

// Presentational markers substituted for directive syntax in display text.
// None of them re-match any directive pattern, so once a pass leaves the
// text unchanged it stays unchanged.
const (
	UncheckedMark = "☐" // empty-box checklist marker
	CheckedMark   = "☑" // checked-box checklist marker
	ButtonOpen    = "⟦" // button-span open
	ButtonClose   = "⟧" // button-span close
)

// Annotate classifies one message. checked is the session-scoped set of
// checklist texts already completed; it is read, never written.
//
// User and system messages are never classified: only AI output is expected
// to carry structured directives. Loading or encrypted content is skipped
// too, so partial text and ciphertext are never pattern-matched. In both
// cases the neutral annotation is returned with the content untouched.
func Annotate(msg types.Message, checked map[string]bool) types.MessageAnnotations {
	neutral := types.MessageAnnotations{
		MessageID:   msg.ID,
		DisplayText: msg.Content,
	}

	if msg.Role != types.RoleAssistant {
		return neutral
	}
	if msg.IsLoading || msg.IsEncrypted {
		return neutral
	}

	ann := types.MessageAnnotations{MessageID: msg.ID}
	ann.CSV = extract.CSV(msg.Content)
	ann.PDF = extract.PDF(msg.Content)
	ann.References, ann.HasReferences = extract.References(msg.Content)
	ann.Checklist = extract.Checklist(msg.Content, checked)
	ann.Keywords = extract.Keywords(msg.Content)
	ann.Buttons = extract.Buttons(msg.Content)
	ann.Memories, ann.HasMemoryDirectives = extract.Memories(msg.Content)
	ann.DisplayText = StripDirectives(msg.Content, checked)

	if !ann.IsEmpty() {
		logging.AnnotateDebug("message %s: csv=%v pdf=%v refs=%d checklist=%d keywords=%d buttons=%d memories=%d",
			msg.ID, ann.CSV != nil, ann.PDF != nil, len(ann.References),
			len(ann.Checklist), len(ann.Keywords), len(ann.Buttons), len(ann.Memories))
	}

	return ann
}

// stripRe is the combined directive alternation used by StripDirectives.
// Group layout:
//
//	1-3: checklist indent, marker, text
//	4:   interactive keyword text
//	5:   button label
//
// The memory-directive branch carries no groups; it is simply deleted.
// Group numbering is load-bearing; keep the alternatives in this order.
var stripRe = regexp.MustCompile(`(?m)` +
	`\[MEMORY:\s*[^=\]]+?\s*=\s*[^,\]]*?\s*(?:,\s*importance\s*=\s*\d+\s*)?\]` +
	`|^([ \t]*)-[ \t]\[([ xX])\][ \t]+(.+)$` +
	`|\[([^\[\]]+)\]\{\.interactive\}` +
	`|\[([^\[\]]+)\]\(send:[^)]*\)`)

// StripDirectives rewrites text for display: memory directives are deleted,
// checklist markers become presentational check marks carrying the checked
// flag, keyword markers become emphasis spans, and button markers become
// button spans. Markdown unrelated to directives (code fences, links,
// tables) passes through untouched.
//
// Deleting a directive splices its neighbors together, and the spliced text
// can itself form directive syntax the current pass already walked past.
// Passes repeat until the text stops changing, so the result carries no
// directive syntax and re-running StripDirectives on it is a no-op. The
// loop terminates: every pass either shortens the text or rewrites a match
// into markers no pattern recognizes.
func StripDirectives(text string, checked map[string]bool) string {
	for {
		out := stripOnce(text, checked)
		if out == text {
			return out
		}
		text = out
	}
}

// stripOnce applies one left-to-right substitution pass.
func stripOnce(text string, checked map[string]bool) string {
	locs := stripRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(len(text))
	prev := 0
	for _, loc := range locs {
		sb.WriteString(text[prev:loc[0]])
		sb.WriteString(stripReplacement(text, loc, checked))
		prev = loc[1]
	}
	sb.WriteString(text[prev:])
	return sb.String()
}

// stripReplacement renders the substitute for one directive match.
func stripReplacement(text string, loc []int, checked map[string]bool) string {
	group := func(n int) (string, bool) {
		s, e := loc[2*n], loc[2*n+1]
		if s < 0 || e < 0 {
			return "", false
		}
		return text[s:e], true
	}

	if marker, ok := group(2); ok {
		// Checklist line: indent + mark + text. The line match consumes
		// the whole line, so any directive embedded in the item text is
		// stripped recursively.
		indent, _ := group(1)
		itemText, _ := group(3)
		mark := UncheckedMark
		if marker == "x" || marker == "X" || checked[strings.TrimSpace(itemText)] {
			mark = CheckedMark
		}
		return indent + mark + " " + StripDirectives(itemText, checked)
	}
	if kw, ok := group(4); ok {
		return "**" + kw + "**"
	}
	if label, ok := group(5); ok {
		return ButtonOpen + label + ButtonClose
	}
	// Memory directive: deleted outright.
	return ""
}
