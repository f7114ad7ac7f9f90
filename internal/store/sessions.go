package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"persona/internal/logging"
	"persona/internal/types"
)

// =============================================================================
// SESSIONS & MESSAGES
// =============================================================================

// Session is one chat session row.
type Session struct {
	ID        string
	Persona   string
	Title     string
	CreatedAt time.Time
}

// CreateSession inserts a new session for the given persona.
func (s *Store) CreateSession(persona, title string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := Session{
		ID:        uuid.NewString(),
		Persona:   persona,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, persona, title, created_at) VALUES (?, ?, ?, ?)",
		sess.ID, sess.Persona, sess.Title, sess.CreatedAt,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to create session for %s: %v", persona, err)
		return Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	logging.Session("Session created: id=%s persona=%s", sess.ID, persona)
	return sess, nil
}

// GetSession fetches one session by ID.
func (s *Store) GetSession(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sess Session
	err := s.db.QueryRow(
		"SELECT id, persona, title, created_at FROM sessions WHERE id = ?", id,
	).Scan(&sess.ID, &sess.Persona, &sess.Title, &sess.CreatedAt)
	if err == sql.ErrNoRows {
		return Session{}, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

// LatestSession returns the most recent session for a persona, or
// sql.ErrNoRows wrapped when none exists.
func (s *Store) LatestSession(persona string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sess Session
	err := s.db.QueryRow(
		`SELECT id, persona, title, created_at FROM sessions
		 WHERE persona = ? ORDER BY created_at DESC LIMIT 1`, persona,
	).Scan(&sess.ID, &sess.Persona, &sess.Title, &sess.CreatedAt)
	if err != nil {
		return Session{}, fmt.Errorf("no session for persona %s: %w", persona, err)
	}
	return sess, nil
}

// ListSessions returns sessions newest first, up to limit (0 = all).
func (s *Store) ListSessions(limit int) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT id, persona, title, created_at FROM sessions ORDER BY created_at DESC"
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Persona, &sess.Title, &sess.CreatedAt); err != nil {
			continue
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// AppendMessage stores one message. A missing ID or timestamp is filled in.
func (s *Store) AppendMessage(msg types.Message) (types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		"INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)",
		msg.ID, msg.SessionID, string(msg.Role), msg.Content, msg.CreatedAt,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to append message to session %s: %v", msg.SessionID, err)
		return msg, fmt.Errorf("failed to append message: %w", err)
	}

	logging.SessionDebug("Message appended: session=%s role=%s len=%d", msg.SessionID, msg.Role, len(msg.Content))
	return msg, nil
}

// Messages returns a session's messages, oldest first.
func (s *Store) Messages(sessionID string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		`SELECT id, session_id, role, content, created_at FROM messages
		 WHERE session_id = ? ORDER BY created_at ASC, id ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	defer rows.Close()

	var msgs []types.Message
	for rows.Next() {
		var msg types.Message
		var role string
		if err := rows.Scan(&msg.ID, &msg.SessionID, &role, &msg.Content, &msg.CreatedAt); err != nil {
			continue
		}
		msg.Role = types.Role(role)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
