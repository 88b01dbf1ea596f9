package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/audio"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/segment"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/voices"
)

type synthesizeRequest struct {
	Text                string  `json:"text"`
	Language            string  `json:"language"`
	ExplanationLanguage string  `json:"explanation_language"`
	VoiceStyle          string  `json:"voice_style"`
	Voice               string  `json:"voice"`
	ExplanationVoice    string  `json:"explanation_voice"`
	LengthScale         float64 `json:"length_scale"`
}

// SynthesizeHandler handles POST /api/conversation/synthesize: tagged
// text in, one assembled WAV utterance out.
type SynthesizeHandler struct {
	Config    config.Config
	Assembler *audio.Assembler
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
}

func (h SynthesizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	start := time.Now()

	var req synthesizeRequest
	if err := decodeJSON(r, h.Config.MaxBodyBytes, &req); err != nil {
		h.observe("400", start)
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.observe("400", start)
		writeError(w, r, core.NewValidationErrorWithParam("text is required", "text"))
		return
	}
	if h.Assembler == nil {
		h.observe("503", start)
		writeError(w, r, core.NewEngineUnavailableError("tts"))
		return
	}

	target := req.Language
	if target == "" {
		target = "es"
	}
	explanation := req.ExplanationLanguage
	if explanation == "" {
		explanation = "en"
	}

	segments := segment.Split(req.Text, target, explanation)
	selection := voices.ResolveBilingual(target, req.VoiceStyle, req.Voice, req.ExplanationVoice, explanation)

	res := h.Assembler.SynthesizeSegments(r.Context(), segments, selection.VoiceMap(), req.LengthScale)
	if res.Fallback && h.Metrics != nil {
		h.Metrics.RecordFallbackAudio()
	}

	h.observe("200", start)
	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.WAV)
}

func (h SynthesizeHandler) observe(status string, start time.Time) {
	if h.Metrics != nil {
		h.Metrics.RecordRequest("synthesize", status, time.Since(start))
	}
}
