package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// PiperProvider implements the TTS Provider interface against a Piper HTTP
// server. Piper is monolingual per voice model; callers pick the voice for
// each language themselves.
type PiperProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewPiper creates a new Piper TTS provider.
func NewPiper(baseURL string) *PiperProvider {
	return NewPiperWithClient(baseURL, &http.Client{})
}

// NewPiperWithClient creates a new Piper TTS provider with a custom HTTP client.
func NewPiperWithClient(baseURL string, client *http.Client) *PiperProvider {
	return &PiperProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// Name returns the provider identifier.
func (p *PiperProvider) Name() string {
	return "piper"
}

type piperRequest struct {
	Text        string  `json:"text"`
	Voice       string  `json:"voice,omitempty"`
	LengthScale float64 `json:"length_scale,omitempty"`
}

// Synthesize converts text to WAV audio.
func (p *PiperProvider) Synthesize(ctx context.Context, text string, opts SynthesizeOptions) ([]byte, error) {
	body, err := json.Marshal(piperRequest{
		Text:        text,
		Voice:       opts.Voice,
		LengthScale: opts.LengthScale,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("piper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("piper error %d: %s", resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}
