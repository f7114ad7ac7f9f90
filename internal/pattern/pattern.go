// Package pattern holds the fixed, versioned set of recognizer patterns the
// extraction pipeline is built from. Each pattern recognizes one content kind
// in raw message text (CSV block, PDF reference, bibliographic reference,
// checklist item, interactive keyword, action button, memory directive).
//
// Patterns are pure data: compiling happens once at package init, matching
// has no side effects, and every pattern is total - Find never fails, it
// returns a possibly-empty list of matches. This is the one part of the
// system that must reproduce the upstream directive syntax bit-exactly;
// a deviation here means AI-authored directives silently fail to render.
package pattern

import "regexp"

// Match is one occurrence of a pattern in the input text.
// Start/End are byte offsets of the full match; Captures holds the
// submatches in group order (empty string for a group that did not
// participate).
type Match struct {
	Start    int
	End      int
	Captures []string
}

// Pattern is a named, compiled recognizer.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// Find returns all matches of the pattern in text, in order of appearance.
func (p *Pattern) Find(text string) []Match {
	idx := p.re.FindAllStringSubmatchIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(idx))
	for _, loc := range idx {
		m := Match{Start: loc[0], End: loc[1]}
		ngroups := len(loc)/2 - 1
		if ngroups > 0 {
			m.Captures = make([]string, ngroups)
			for g := 1; g <= ngroups; g++ {
				s, e := loc[2*g], loc[2*g+1]
				if s >= 0 && e >= 0 {
					m.Captures[g-1] = text[s:e]
				}
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// FindFirst returns the first match, or nil if the pattern does not occur.
func (p *Pattern) FindFirst(text string) *Match {
	matches := p.Find(text)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// Matches reports whether the pattern occurs at all.
func (p *Pattern) Matches(text string) bool {
	return p.re.MatchString(text)
}

// Regexp exposes the compiled expression for callers that need custom
// replacement logic (the directive stripper).
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// Library is the full recognizer set. A single shared instance is compiled
// at init; the struct exists so tests can reference patterns by name.
type Library struct {
	// FencedCodeBlock matches ``` fenced blocks with an optional language
	// tag. Captures: [language, body]. Body is captured verbatim including
	// its trailing newline.
	FencedCodeBlock *Pattern

	// PDFDataURL matches an inline base64 PDF data URL.
	PDFDataURL *Pattern

	// PDFHTTPLink matches an http(s) URL ending in .pdf (case-insensitive).
	PDFHTTPLink *Pattern

	// PDFContextPhrase matches prose announcing a generated PDF
	// ("I've created a PDF...", "generated a PDF"). The first URL after
	// the phrase is the contextual PDF source.
	PDFContextPhrase *Pattern

	// HTTPURL matches any http(s) URL. Used together with PDFContextPhrase.
	HTTPURL *Pattern

	// ReferenceNumbered matches one "[n]: text" line.
	// Captures: [number, text].
	ReferenceNumbered *Pattern

	// ReferenceSection matches a "References:"/"Sources:"/"Citations:"
	// header line followed by non-blank lines up to the next blank line.
	// Captures: [header, block].
	ReferenceSection *Pattern

	// ReferenceInline matches inline citation phrases ("according to X",
	// "based on X", "as stated in X", "as mentioned in X",
	// "from X we know that"). Presence-only: these gate the
	// has-references flag without producing structured entries.
	ReferenceInline *Pattern

	// ChecklistItem matches one "- [ ] text" or "- [x] text" line.
	// Captures: [marker, text]. Both "x" and "X" count as pre-checked.
	ChecklistItem *Pattern

	// InteractiveKeyword matches "[text]{.interactive}".
	// Captures: [text].
	InteractiveKeyword *Pattern

	// InteractiveButton matches "[label](send:payload)". Payload is raw up
	// to the closing paren; nested parens are not supported.
	// Captures: [label, payload].
	InteractiveButton *Pattern

	// MemoryDirective matches "[MEMORY: key=value]" with an optional
	// ", importance=n" suffix. Captures: [key, value, importance].
	MemoryDirective *Pattern
}

// Default is the shared compiled library.
var Default = &Library{
	FencedCodeBlock: &Pattern{
		Name: "fencedCodeBlock",
		re:   regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \t]*\r?\n(.*?)```"),
	},
	PDFDataURL: &Pattern{
		Name: "pdfDataUrl",
		re:   regexp.MustCompile(`data:application/pdf;base64,[A-Za-z0-9+/=]+`),
	},
	PDFHTTPLink: &Pattern{
		Name: "pdfHttpLink",
		re:   regexp.MustCompile(`(?i)https?://[^\s"'<>)\]]+\.pdf`),
	},
	PDFContextPhrase: &Pattern{
		Name: "pdfContextPhrase",
		re:   regexp.MustCompile(`(?i)(?:created|generated)\s+a\s+PDF`),
	},
	HTTPURL: &Pattern{
		Name: "httpUrl",
		re:   regexp.MustCompile(`https?://[^\s"'<>)\]]+`),
	},
	ReferenceNumbered: &Pattern{
		Name: "referenceNumbered",
		re:   regexp.MustCompile(`(?m)^\[(\d+)\]:[ \t]*(.+)$`),
	},
	ReferenceSection: &Pattern{
		Name: "referenceSection",
		re:   regexp.MustCompile(`(?im)^(references|sources|citations):[ \t]*\r?\n((?:[ \t]*\S[^\n]*\r?\n?)+)`),
	},
	ReferenceInline: &Pattern{
		Name: "referenceInline",
		re:   regexp.MustCompile(`(?i)\b(?:according to|based on|as stated in|as mentioned in)\s+\S+|\bfrom\s+\S+\s+we know that`),
	},
	ChecklistItem: &Pattern{
		Name: "checklistItem",
		re:   regexp.MustCompile(`(?m)^[ \t]*-[ \t]\[([ xX])\][ \t]+(.+)$`),
	},
	InteractiveKeyword: &Pattern{
		Name: "interactiveKeyword",
		re:   regexp.MustCompile(`\[([^\[\]]+)\]\{\.interactive\}`),
	},
	InteractiveButton: &Pattern{
		Name: "interactiveButton",
		re:   regexp.MustCompile(`\[([^\[\]]+)\]\(send:([^)]*)\)`),
	},
	MemoryDirective: &Pattern{
		Name: "memoryDirective",
		re:   regexp.MustCompile(`\[MEMORY:\s*([^=\]]+?)\s*=\s*([^,\]]*?)\s*(?:,\s*importance\s*=\s*(\d+)\s*)?\]`),
	},
}
