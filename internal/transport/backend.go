// Package transport talks to the chat backend that produces persona
// replies. The classification core never touches this package; it consumes
// Message records and hands outbound strings to a send callback, keeping
// the pipeline transport-agnostic.
package transport

import (
	"context"

	"persona/internal/types"
)

// Backend produces one assistant reply for a conversation.
type Backend interface {
	// Name identifies the backend for logging and diagnostics.
	Name() string

	// Reply returns the assistant's next message content. system is the
	// persona's system prompt (with any persisted memories appended);
	// history is the conversation so far, oldest first.
	Reply(ctx context.Context, system string, history []types.Message) (string, error)
}
