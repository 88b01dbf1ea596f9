package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
)

type HealthHandler struct{}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// ReadyHandler reports whether the gateway configuration is serviceable
// and which engines are wired up.
type ReadyHandler struct {
	Config config.Config
}

func (h ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	type readyResp struct {
		OK             bool     `json:"ok"`
		STTEnabled     bool     `json:"stt_enabled"`
		LLMEngine      string   `json:"llm_engine"`
		TTSEnabled     bool     `json:"tts_enabled"`
		SessionBackend string   `json:"session_backend"`
		Issues         []string `json:"issues,omitempty"`
	}

	issues := make([]string, 0, 4)

	switch h.Config.LLMEngine {
	case config.LLMEngineLlama, config.LLMEngineGemini, config.LLMEngineCanned, config.LLMEngineNone:
	default:
		issues = append(issues, "invalid llm_engine")
	}
	switch h.Config.SessionBackend {
	case config.SessionBackendMemory, config.SessionBackendRedis:
	default:
		issues = append(issues, "invalid session_backend")
	}
	if h.Config.MaxBodyBytes <= 0 || h.Config.MaxAudioBytes <= 0 {
		issues = append(issues, "body limits must be > 0")
	}
	if h.Config.SSEPingInterval <= 0 {
		issues = append(issues, "sse ping interval must be > 0")
	}
	if h.Config.EngineTimeout <= 0 {
		issues = append(issues, "engine timeout must be > 0")
	}

	ok := len(issues) == 0
	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(readyResp{
		OK:             ok,
		STTEnabled:     h.Config.WhisperBaseURL != "",
		LLMEngine:      string(h.Config.LLMEngine),
		TTSEnabled:     h.Config.PiperBaseURL != "",
		SessionBackend: string(h.Config.SessionBackend),
		Issues:         issues,
	})
}
