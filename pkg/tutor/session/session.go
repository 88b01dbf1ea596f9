package session

import (
	"context"
	"errors"
)

// MaxHistory caps how many messages one conversation retains. Older
// messages are dropped oldest-first.
const MaxHistory = 20

// Message is one turn of a tutoring conversation.
type Message struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

var (
	ErrInvalidStoreType = errors.New("session: invalid store type")
	ErrInvalidConfig    = errors.New("session: invalid store configuration")
)

// Store persists per-session conversation history.
type Store interface {
	// History returns the retained messages for a session, oldest first.
	// An unknown session yields an empty history, not an error.
	History(ctx context.Context, id string) ([]Message, error)

	// AppendTurn appends a user/assistant exchange atomically and trims
	// the history to MaxHistory.
	AppendTurn(ctx context.Context, id string, user, assistant Message) error

	// Clear removes all history for a session.
	Clear(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
