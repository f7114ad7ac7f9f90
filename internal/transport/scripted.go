package transport

import (
	"context"
	"sync"

	"persona/internal/types"
)

// ScriptedBackend replays a fixed sequence of replies. It exists for demos
// and offline use (no API key configured) and for tests that need a
// deterministic conversation partner.
type ScriptedBackend struct {
	mu      sync.Mutex
	replies []string
	next    int
}

// defaultScript shows off every widget kind the renderer supports.
var defaultScript = []string{
	"Hello! I'm running in offline mode with canned replies.\n\n" +
		"Try asking about [structured content]{.interactive}, or jump right in:\n\n" +
		"[Show me a table](send:Show me a CSV table)",
	"Here's a small dataset:\n\n```csv\nname,role,years\nAda,Engineer,11\nGrace,Admiral,40\n```\n\n" +
		"- [ ] Review the table\n- [ ] Ask a follow-up question\n\n" +
		"[MEMORY: favorite_demo=csv, importance=2]",
	"Some further reading:\n\nReferences:\n[1]: The Art of Computer Programming\n[2]: Structure and Interpretation of Computer Programs",
}

// NewScriptedBackend creates a scripted backend. With no replies given, a
// built-in demo script is used. After the script is exhausted the last
// reply repeats.
func NewScriptedBackend(replies ...string) *ScriptedBackend {
	if len(replies) == 0 {
		replies = defaultScript
	}
	return &ScriptedBackend{replies: replies}
}

// Name implements Backend.
func (s *ScriptedBackend) Name() string { return "scripted" }

// Reply implements Backend.
func (s *ScriptedBackend) Reply(_ context.Context, _ string, _ []types.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := s.replies[s.next]
	if s.next < len(s.replies)-1 {
		s.next++
	}
	return reply, nil
}
