package llm

import (
	"context"
	"io"
	"strings"
)

// CannedProvider returns deterministic scripted replies. It stands in for a
// real model when none is configured, so the conversation surface keeps
// working during setup and in tests.
type CannedProvider struct{}

// NewCanned creates the canned provider.
func NewCanned() *CannedProvider {
	return &CannedProvider{}
}

// Name returns the provider identifier.
func (p *CannedProvider) Name() string {
	return "canned"
}

var cannedReplies = []struct {
	trigger string
	reply   string
}{
	{"hello", "[EN]Hello! I'm here to help you practice languages.[/EN] [TL]¡Hola![/TL]"},
	{"how are you", "[EN]I'm doing well, thank you![/EN] [TL]¿Cómo estás?[/TL]"},
	{"goodbye", "[EN]Goodbye! See you next time![/EN] [TL]¡Adiós![/TL]"},
	{"help", "[EN]I can help you practice conversational phrases in various languages. Try greeting me or asking a question![/EN]"},
}

const cannedDefault = "[EN]I'm here to help you practice! No language model is configured yet, so replies are limited.[/EN]"

// CannedReply picks a scripted reply for the last user message.
func CannedReply(messages []Message) string {
	var userMessage string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			userMessage = messages[i].Content
			break
		}
	}

	lower := strings.ToLower(userMessage)
	for _, c := range cannedReplies {
		if strings.Contains(lower, c.trigger) {
			return c.reply
		}
	}
	return cannedDefault
}

// Generate returns the scripted reply.
func (p *CannedProvider) Generate(ctx context.Context, messages []Message, opts Options) (string, error) {
	return CannedReply(messages), nil
}

// GenerateStream yields the scripted reply as a single chunk.
func (p *CannedProvider) GenerateStream(ctx context.Context, messages []Message, opts Options) (Stream, error) {
	return &cannedStream{text: CannedReply(messages)}, nil
}

type cannedStream struct {
	text string
	done bool
}

func (s *cannedStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	s.done = true
	return s.text, nil
}

func (s *cannedStream) Close() error { return nil }
