// Package pipeline orchestrates one tutoring turn: speech-to-text,
// prompt composition, language model generation, bilingual segmentation
// and speech assembly, with session history threaded through.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/core/llm"
	"github.com/djbqrex/Lingua-Local/pkg/core/stt"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/audio"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/prompt"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/segment"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/session"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/voices"
)

// DefaultSessionID is used when a request does not name a session.
const DefaultSessionID = "default"

// historyWindow is how many stored messages are replayed to the language
// model. The store keeps more; the prompt stays short.
const historyWindow = 10

// Request describes one conversation turn. Exactly one of Text or Audio
// must be set.
type Request struct {
	SessionID string
	Text      string
	Audio     []byte

	TargetLanguage      string
	ExplanationLanguage string
	Difficulty          string
	Scenario            string
	TeachingIntensity   string

	VoiceStyle       string
	TargetVoice      string
	ExplanationVoice string
	LengthScale      float64

	// WithAudio asks for a synthesized WAV of the reply.
	WithAudio bool
}

func (r Request) normalized() Request {
	if strings.TrimSpace(r.SessionID) == "" {
		r.SessionID = DefaultSessionID
	}
	if r.TargetLanguage == "" {
		r.TargetLanguage = "es"
	}
	if r.ExplanationLanguage == "" {
		r.ExplanationLanguage = "en"
	}
	if r.LengthScale <= 0 {
		r.LengthScale = 1.0
	}
	return r
}

// Result is the outcome of a completed turn.
type Result struct {
	SessionID   string
	UserText    string
	Response    string
	DisplayText string
	Language    string

	// DetectedLanguage is the language recognized in the user's audio.
	// Empty for text input.
	DetectedLanguage string

	Segments  []segment.Segment
	Selection voices.Selection

	WAV           []byte
	AudioFallback bool
}

// Pipeline wires the engine collaborators together. Unset collaborators
// surface as engine-unavailable errors when a turn needs them.
type Pipeline struct {
	STT       stt.Provider
	LLM       llm.Provider
	Assembler *audio.Assembler
	Store     session.Store
	Logger    *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Respond runs one blocking turn and returns the full result.
func (p *Pipeline) Respond(ctx context.Context, req Request) (*Result, error) {
	req = req.normalized()

	userText, transcript, err := p.resolveInput(ctx, req)
	if err != nil {
		return nil, err
	}

	messages, opts, err := p.buildPrompt(ctx, req, userText)
	if err != nil {
		return nil, err
	}

	raw, err := p.LLM.Generate(ctx, messages, opts)
	if err != nil {
		return nil, err
	}

	res := p.finish(ctx, req, userText, detectedLanguage(transcript), raw)
	return res, nil
}

// Stream runs one turn, delivering progress through emit in a fixed
// order: start, transcription (audio input only), response_start, zero or
// more response_chunk, then exactly one of complete or error. Domain
// failures are reported as an error event and a nil return; a non-nil
// return means emit itself failed and the stream is dead.
func (p *Pipeline) Stream(ctx context.Context, req Request, emit func(Event) error) error {
	req = req.normalized()

	status := "generating"
	if len(req.Audio) > 0 && req.Text == "" {
		status = "transcribing"
	}
	if err := emit(StartEvent{Status: status, SessionID: req.SessionID}); err != nil {
		return err
	}

	userText, transcript, err := p.resolveInput(ctx, req)
	if err != nil {
		return emit(ErrorEvent{Message: userMessage(err)})
	}
	if transcript != nil {
		ev := TranscriptionEvent{Text: transcript.Text, Language: transcript.Language}
		if err := emit(ev); err != nil {
			return err
		}
	}

	messages, opts, err := p.buildPrompt(ctx, req, userText)
	if err != nil {
		return emit(ErrorEvent{Message: userMessage(err)})
	}

	stream, err := p.LLM.GenerateStream(ctx, messages, opts)
	if err != nil {
		return emit(ErrorEvent{Message: userMessage(err)})
	}
	defer stream.Close()

	if err := emit(ResponseStartEvent{}); err != nil {
		return err
	}

	var raw strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return emit(ErrorEvent{Message: userMessage(err)})
		}
		if chunk == "" {
			continue
		}
		raw.WriteString(chunk)
		if err := emit(ResponseChunkEvent{Text: chunk}); err != nil {
			return err
		}
	}

	res := p.finish(ctx, req, userText, detectedLanguage(transcript), raw.String())
	return emit(CompleteEvent{
		Response:    res.Response,
		DisplayText: res.DisplayText,
		Language:    res.Language,
	})
}

// resolveInput produces the user's text, transcribing audio when needed.
// The transcript is non-nil only for audio input.
func (p *Pipeline) resolveInput(ctx context.Context, req Request) (string, *stt.Transcript, error) {
	text := strings.TrimSpace(req.Text)
	if text != "" {
		return text, nil, nil
	}
	if len(req.Audio) == 0 {
		return "", nil, core.NewValidationError("either text or audio input is required")
	}
	if p.STT == nil {
		return "", nil, core.NewEngineUnavailableError("stt")
	}

	transcript, err := p.STT.Transcribe(ctx, bytes.NewReader(req.Audio), stt.TranscribeOptions{
		Language: req.TargetLanguage,
	})
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(transcript.Text) == "" {
		return "", nil, core.NewValidationError("no speech detected in audio")
	}
	return strings.TrimSpace(transcript.Text), transcript, nil
}

// buildPrompt assembles the system prompt, the recent history window and
// the new user message, plus the generation settings for this turn.
func (p *Pipeline) buildPrompt(ctx context.Context, req Request, userText string) ([]llm.Message, llm.Options, error) {
	if p.LLM == nil {
		return nil, llm.Options{}, core.NewEngineUnavailableError("llm")
	}

	system := prompt.ComposeSystemPrompt(req.TargetLanguage, req.Difficulty, req.Scenario, req.TeachingIntensity)
	messages := []llm.Message{{Role: "system", Content: system}}

	if p.Store != nil {
		history, err := p.Store.History(ctx, req.SessionID)
		if err != nil {
			p.logger().Warn("history load failed, continuing without context",
				"session_id", req.SessionID, "error", err)
		}
		if n := len(history); n > historyWindow {
			history = history[n-historyWindow:]
		}
		for _, m := range history {
			messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
		}
	}

	messages = append(messages, llm.Message{Role: "user", Content: userText})

	settings := prompt.ResolveGenerationSettings(req.Difficulty, req.TeachingIntensity)
	opts := llm.Options{
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
		TopP:        settings.TopP,
	}
	return messages, opts, nil
}

// finish post-processes a successful generation: segmentation, voice
// selection, optional synthesis, and the history append. History is only
// written here, after the model reply is in hand, and only when the
// reply is non-empty.
func (p *Pipeline) finish(ctx context.Context, req Request, userText, detected, raw string) *Result {
	display := segment.StripTags(raw)
	segments := segment.Split(raw, req.TargetLanguage, req.ExplanationLanguage)
	selection := voices.ResolveBilingual(req.TargetLanguage, req.VoiceStyle, req.TargetVoice, req.ExplanationVoice, req.ExplanationLanguage)

	res := &Result{
		SessionID:        req.SessionID,
		UserText:         userText,
		Response:         raw,
		DisplayText:      display,
		Language:         req.TargetLanguage,
		DetectedLanguage: detected,
		Segments:         segments,
		Selection:        selection,
	}

	if req.WithAudio && p.Assembler != nil {
		assembled := p.Assembler.SynthesizeSegments(ctx, segments, selection.VoiceMap(), req.LengthScale)
		res.WAV = assembled.WAV
		res.AudioFallback = assembled.Fallback
	}

	if p.Store != nil && strings.TrimSpace(raw) != "" {
		err := p.Store.AppendTurn(ctx, req.SessionID,
			session.Message{Role: "user", Content: userText, Language: detected},
			session.Message{Role: "assistant", Content: display, Language: req.TargetLanguage},
		)
		if err != nil {
			p.logger().Warn("history append failed", "session_id", req.SessionID, "error", err)
		}
	}
	return res
}

// detectedLanguage pulls the recognized language out of a transcript.
func detectedLanguage(t *stt.Transcript) string {
	if t == nil {
		return ""
	}
	return t.Language
}

// userMessage extracts a client-safe message from an error.
func userMessage(err error) string {
	var apiErr *core.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "conversation turn failed"
}
