package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// WhisperProvider implements the STT Provider interface against an
// OpenAI-compatible transcription server (faster-whisper-server,
// whisper.cpp server, or the hosted API).
type WhisperProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewWhisper creates a new Whisper STT provider.
func NewWhisper(baseURL, apiKey, model string) *WhisperProvider {
	return NewWhisperWithClient(baseURL, apiKey, model, &http.Client{})
}

// NewWhisperWithClient creates a new Whisper STT provider with a custom HTTP client.
func NewWhisperWithClient(baseURL, apiKey, model string, client *http.Client) *WhisperProvider {
	return &WhisperProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: client,
	}
}

// Name returns the provider identifier.
func (p *WhisperProvider) Name() string {
	return "whisper"
}

// whisperResponse matches the verbose_json shape of /v1/audio/transcriptions.
type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
	// faster-whisper-server extension; absent on other servers.
	LanguageProbability float64 `json:"language_probability"`
}

// Transcribe converts audio to text via the transcription endpoint.
func (p *WhisperProvider) Transcribe(ctx context.Context, audio io.Reader, opts TranscribeOptions) (*Transcript, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	filename := "audio.wav"
	if opts.Format != "" {
		filename = "audio." + opts.Format
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("copy audio: %w", err)
	}
	if err := mw.WriteField("model", p.model); err != nil {
		return nil, fmt.Errorf("write model field: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("write response_format field: %w", err)
	}
	if opts.Language != "" {
		if err := mw.WriteField("language", opts.Language); err != nil {
			return nil, fmt.Errorf("write language field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error %d: %s", resp.StatusCode, string(errBody))
	}

	var wr whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	t := &Transcript{
		Text:                strings.TrimSpace(wr.Text),
		Language:            wr.Language,
		LanguageProbability: wr.LanguageProbability,
		Duration:            wr.Duration,
		Segments:            make([]Segment, 0, len(wr.Segments)),
	}
	for _, s := range wr.Segments {
		t.Segments = append(t.Segments, Segment{
			Start: s.Start,
			End:   s.End,
			Text:  strings.TrimSpace(s.Text),
		})
	}
	return t, nil
}
