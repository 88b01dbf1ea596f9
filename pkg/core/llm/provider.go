// Package llm provides language-model generation for tutoring replies.
package llm

import (
	"context"
)

// Message is one chat message sent to the model.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// Options are the generation parameters for one request.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Provider is the interface for language-model engines.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Generate returns the full reply text for the given messages.
	Generate(ctx context.Context, messages []Message, opts Options) (string, error)

	// GenerateStream returns a stream of incremental text chunks.
	// Chunks are emitted in generation order; the stream ends with io.EOF.
	GenerateStream(ctx context.Context, messages []Message, opts Options) (Stream, error)
}

// Stream is an iterator over generated text chunks.
type Stream interface {
	// Next returns the next chunk, or io.EOF when generation is complete.
	Next() (string, error)

	// Close releases the underlying connection. Safe to call more than once.
	Close() error
}
