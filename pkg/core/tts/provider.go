// Package tts provides text-to-speech functionality.
package tts

import (
	"context"
)

// Provider is the interface for text-to-speech engines.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Synthesize converts text to audio and returns the encoded bytes.
	Synthesize(ctx context.Context, text string, opts SynthesizeOptions) ([]byte, error)
}

// SynthesizeOptions configures synthesis.
type SynthesizeOptions struct {
	Voice       string  // Voice identifier (Piper voice id)
	LengthScale float64 // Speech pacing; higher is slower (0 means engine default)
	SampleRate  int     // Requested output sample rate (0 means engine default)
}
