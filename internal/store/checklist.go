package store

import (
	"fmt"

	"persona/internal/logging"
)

// =============================================================================
// CHECKLIST STATE
// =============================================================================
//
// The checked-set is session-scoped and in-memory by default; these methods
// back the optional persist_checklist mode, where checked texts survive a
// restart. The Store satisfies the dispatcher's CheckedSink interface.

// MarkChecked records a checklist text as completed. Idempotent.
func (s *Store) MarkChecked(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO checklist_state (text) VALUES (?)", text,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to persist checked item %q: %v", text, err)
		return fmt.Errorf("failed to persist checked item: %w", err)
	}
	return nil
}

// CheckedTexts returns every persisted checked checklist text.
func (s *Store) CheckedTexts() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT text FROM checklist_state ORDER BY checked_at ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to load checked items: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			continue
		}
		texts = append(texts, t)
	}
	return texts, rows.Err()
}
