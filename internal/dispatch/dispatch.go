// Package dispatch maps user interaction on rendered detections (checklist
// items, keywords, buttons) back to outbound chat messages, and tracks the
// idempotent checked-state for checklist items.
//
// The dispatcher never talks to the transport directly: it hands the
// outbound string to an injected send callback, which keeps it
// transport-agnostic and unit-testable without network mocking.
package dispatch

import (
	"sync"

	"persona/internal/logging"
)

// SendFunc delivers one outbound chat message. Owned by the chat transport
// collaborator.
type SendFunc func(text string)

// CheckedSink receives newly checked checklist texts for persistence.
// Optional; the baseline checked-set is session-scoped and in-memory only.
type CheckedSink interface {
	MarkChecked(text string) error
}

// Dispatcher routes widget interactions to the transport and owns the
// session's checked-set. Safe for concurrent use.
type Dispatcher struct {
	mu      sync.Mutex
	checked map[string]bool
	send    SendFunc
	sink    CheckedSink
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithCheckedSink attaches a persistence sink for checked checklist texts.
func WithCheckedSink(sink CheckedSink) Option {
	return func(d *Dispatcher) { d.sink = sink }
}

// WithChecked seeds the checked-set, e.g. from a persisted store.
func WithChecked(texts []string) Option {
	return func(d *Dispatcher) {
		for _, t := range texts {
			d.checked[t] = true
		}
	}
}

// New creates a dispatcher that emits outbound messages through send.
func New(send SendFunc, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		checked: make(map[string]bool),
		send:    send,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ChecklistClick marks the item checked and announces completion. Clicking
// an already-checked item is a no-op: it must not send twice. Returns
// whether a message was emitted.
func (d *Dispatcher) ChecklistClick(text string) bool {
	d.mu.Lock()
	if d.checked[text] {
		d.mu.Unlock()
		logging.DispatchDebug("checklist click ignored (already checked): %q", text)
		return false
	}
	d.checked[text] = true
	sink := d.sink
	d.mu.Unlock()

	if sink != nil {
		if err := sink.MarkChecked(text); err != nil {
			logging.Get(logging.CategoryDispatch).Warn("failed to persist checked item %q: %v", text, err)
		}
	}

	logging.DispatchDebug("checklist item checked: %q", text)
	d.emit("I've completed: " + text)
	return true
}

// KeywordClick asks the persona to expand on a keyword. Not idempotent;
// repeated clicks send repeatedly.
func (d *Dispatcher) KeywordClick(text string) {
	logging.DispatchDebug("keyword clicked: %q", text)
	d.emit("Tell me more about " + text)
}

// ButtonClick sends the button payload verbatim.
func (d *Dispatcher) ButtonClick(payload string) {
	logging.DispatchDebug("button clicked: payload=%q", payload)
	d.emit(payload)
}

// Checked reports whether a checklist text is in the checked-set.
func (d *Dispatcher) Checked(text string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checked[text]
}

// Snapshot returns a copy of the checked-set for passing into the
// aggregator. The copy is never mutated by the dispatcher afterwards.
func (d *Dispatcher) Snapshot() map[string]bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]bool, len(d.checked))
	for k, v := range d.checked {
		out[k] = v
	}
	return out
}

func (d *Dispatcher) emit(text string) {
	if d.send == nil {
		return
	}
	d.send(text)
}
