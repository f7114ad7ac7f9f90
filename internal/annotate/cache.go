package annotate

import (
	"sync"

	"persona/internal/types"
)

// Cache memoizes annotations by message ID. Messages are immutable once
// classified, so an entry never needs invalidation; correctness does not
// depend on the cache, it only avoids re-running the extractors on every
// re-render.
//
// Checklist checked-state changes after a click, so entries for messages
// with checklist items are refreshed through Invalidate by the dispatcher's
// host rather than recomputed here.
type Cache struct {
	entries sync.Map // message ID -> types.MessageAnnotations
}

// NewCache returns an empty annotation cache.
func NewCache() *Cache {
	return &Cache{}
}

// Annotate returns the cached annotation for the message, computing and
// storing it on first use.
func (c *Cache) Annotate(msg types.Message, checked map[string]bool) types.MessageAnnotations {
	if v, ok := c.entries.Load(msg.ID); ok {
		return v.(types.MessageAnnotations)
	}
	ann := Annotate(msg, checked)
	c.entries.Store(msg.ID, ann)
	return ann
}

// Invalidate drops the cached entry for one message.
func (c *Cache) Invalidate(messageID string) {
	c.entries.Delete(messageID)
}

// InvalidateAll drops every cached entry. Used when the checked-set changes,
// since checked-state is keyed by text and may affect any message.
func (c *Cache) InvalidateAll() {
	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)
		return true
	})
}
