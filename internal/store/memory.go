package store

import (
	"fmt"
	"strings"
	"time"

	"persona/internal/logging"
	"persona/internal/types"
)

// =============================================================================
// PERSONA MEMORY
// =============================================================================
//
// Memory directives extracted from assistant messages are persisted here,
// keyed by (persona, key). They are never rendered; on the next turn they
// are folded back into the system prompt so the persona remembers what it
// asked to remember.

// Memory is one persisted persona memory row.
type Memory struct {
	Persona    string
	Key        string
	Value      string
	Importance int
	UpdatedAt  time.Time
}

// SaveMemory upserts one memory directive for a persona.
func (s *Store) SaveMemory(persona string, directive types.MemoryDirective) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO persona_memory (persona, key, value, importance, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(persona, key) DO UPDATE SET
			value = excluded.value,
			importance = excluded.importance,
			updated_at = excluded.updated_at`,
		persona, directive.Key, directive.Value, directive.Importance, time.Now().UTC(),
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to save memory %s/%s: %v", persona, directive.Key, err)
		return fmt.Errorf("failed to save memory: %w", err)
	}

	logging.StoreDebug("Memory saved: persona=%s key=%s importance=%d", persona, directive.Key, directive.Importance)
	return nil
}

// SaveMemories upserts a batch of directives, continuing past individual
// failures. Returns the number saved.
func (s *Store) SaveMemories(persona string, directives []types.MemoryDirective) int {
	saved := 0
	for _, d := range directives {
		if err := s.SaveMemory(persona, d); err == nil {
			saved++
		}
	}
	return saved
}

// Memories returns a persona's memories, highest importance first, then
// most recently updated.
func (s *Store) Memories(persona string) ([]Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT persona, key, value, importance, updated_at FROM persona_memory
		 WHERE persona = ? ORDER BY importance DESC, updated_at DESC`, persona,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load memories: %w", err)
	}
	defer rows.Close()

	var mems []Memory
	for rows.Next() {
		var m Memory
		if err := rows.Scan(&m.Persona, &m.Key, &m.Value, &m.Importance, &m.UpdatedAt); err != nil {
			continue
		}
		mems = append(mems, m)
	}
	return mems, rows.Err()
}

// ClearMemories deletes all memories for a persona and returns the count.
func (s *Store) ClearMemories(persona string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM persona_memory WHERE persona = ?", persona)
	if err != nil {
		return 0, fmt.Errorf("failed to clear memories: %w", err)
	}
	n, _ := res.RowsAffected()
	logging.Store("Cleared %d memories for persona %s", n, persona)
	return n, nil
}

// MemoryPrompt renders a persona's memories as a system-prompt suffix.
// Returns "" when the persona has none.
func (s *Store) MemoryPrompt(persona string) string {
	mems, err := s.Memories(persona)
	if err != nil || len(mems) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nThings you remember about this user:\n")
	for _, m := range mems {
		sb.WriteString("- " + m.Key + ": " + m.Value + "\n")
	}
	return sb.String()
}
