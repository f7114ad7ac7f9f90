// Package types defines the shared data model for persona: chat messages,
// content detections, and the per-message annotation aggregate produced by
// the classification pipeline.
package types

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one chat turn as the classifier sees it.
// Messages are immutable once classified: the pipeline only reads Content,
// it never rewrites it.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id,omitempty"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`

	// IsLoading marks a message whose content is still streaming in.
	// Partial content must not be pattern-matched.
	IsLoading bool `json:"is_loading,omitempty"`

	// IsEncrypted marks a message whose content has not been decrypted yet.
	// Ciphertext must not be pattern-matched.
	IsEncrypted bool `json:"is_encrypted,omitempty"`
}
