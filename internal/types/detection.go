package types

// =============================================================================
// DETECTIONS
// =============================================================================
//
// A Detection is the unit the classification pipeline produces: one typed
// record per piece of auxiliary structured content recognized in a message.
// CSV and PDF are first-match-wins (at most one per message); the remaining
// kinds are zero-or-many in order of appearance.

// CSVDetection carries the raw body of a CSV-like block.
// At most one per message; the first qualifying candidate wins.
type CSVDetection struct {
	RawBlock string `json:"raw_block"`
}

// PDFDetection points at a PDF the message references, either a data URL or
// an http(s) URL. At most one per message; the first matching pattern wins.
type PDFDetection struct {
	Source   string `json:"source"`
	AutoShow bool   `json:"auto_show"`
}

// ReferenceDetection is one bibliographic reference entry.
type ReferenceDetection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChecklistDetection is one actionable checklist line. Text is the unique
// key: checked-state is tracked by text content, not by position or message.
type ChecklistDetection struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// KeywordDetection is one interactive keyword the user can tap to ask for
// more detail.
type KeywordDetection struct {
	Text string `json:"text"`
}

// ButtonDetection is one action button. Payload is sent verbatim as an
// outbound message when the button is clicked.
type ButtonDetection struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// MemoryDirective is a persona-memory instruction embedded in assistant
// output. Never rendered; stripped from display text and handed to the host
// for persistence. Importance is 1-5, or 0 when the directive carried none.
type MemoryDirective struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Importance int    `json:"importance,omitempty"`
}

// MessageAnnotations is the aggregate classification result for one message.
// It is owned by the rendering layer and recomputed only if message content
// changes; since messages are immutable it is in practice computed once and
// cached by message ID.
type MessageAnnotations struct {
	MessageID string `json:"message_id"`

	CSV        *CSVDetection        `json:"csv,omitempty"`
	PDF        *PDFDetection        `json:"pdf,omitempty"`
	References []ReferenceDetection `json:"references,omitempty"`
	Checklist  []ChecklistDetection `json:"checklist,omitempty"`
	Keywords   []KeywordDetection   `json:"keywords,omitempty"`
	Buttons    []ButtonDetection    `json:"buttons,omitempty"`

	// Memories are the extracted memory directives. They never reach the
	// renderer; the host persists them and injects them into later prompts.
	Memories []MemoryDirective `json:"memories,omitempty"`

	// HasMemoryDirectives reports whether any memory directive syntax was
	// present, even if every directive was malformed and dropped.
	HasMemoryDirectives bool `json:"has_memory_directives,omitempty"`

	// HasReferences reports reference presence, including inline citation
	// phrases ("according to X") that do not produce structured entries.
	HasReferences bool `json:"has_references,omitempty"`

	// DisplayText is the message content with all directive syntax stripped
	// or transformed into presentational markers. Safe to hand to the
	// markdown renderer.
	DisplayText string `json:"display_text"`
}

// IsEmpty reports whether the annotation carries no detections at all.
// Gated messages (wrong role, loading, encrypted) produce empty annotations.
func (a MessageAnnotations) IsEmpty() bool {
	return a.CSV == nil &&
		a.PDF == nil &&
		len(a.References) == 0 &&
		len(a.Checklist) == 0 &&
		len(a.Keywords) == 0 &&
		len(a.Buttons) == 0 &&
		len(a.Memories) == 0 &&
		!a.HasMemoryDirectives &&
		!a.HasReferences
}

// WidgetCount returns the number of interactive widgets (checklist items,
// keywords, buttons) the renderer will expose for this message.
func (a MessageAnnotations) WidgetCount() int {
	return len(a.Checklist) + len(a.Keywords) + len(a.Buttons)
}
