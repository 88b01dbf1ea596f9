package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLMEngine selects which language model backend the gateway talks to.
type LLMEngine string

const (
	// LLMEngineLlama is an OpenAI-compatible llama-server endpoint.
	LLMEngineLlama LLMEngine = "llama"
	// LLMEngineGemini uses the Gemini API.
	LLMEngineGemini LLMEngine = "gemini"
	// LLMEngineCanned serves deterministic scripted replies. Useful for
	// demos and tests when no model is running.
	LLMEngineCanned LLMEngine = "canned"
	// LLMEngineNone disables the language model; conversation endpoints
	// report the engine as unavailable.
	LLMEngineNone LLMEngine = "none"
)

// SessionBackend selects where conversation history lives.
type SessionBackend string

const (
	SessionBackendMemory SessionBackend = "memory"
	SessionBackendRedis  SessionBackend = "redis"
)

type Config struct {
	Addr string

	// Speech-to-text (whisper-server compatible). Empty disables STT.
	WhisperBaseURL string
	WhisperModel   string

	// Language model backend.
	LLMEngine    LLMEngine
	LlamaBaseURL string
	LlamaModel   string
	LlamaAPIKey  string
	GeminiAPIKey string
	GeminiModel  string

	// Text-to-speech (Piper HTTP server). Empty disables TTS.
	PiperBaseURL string

	// Session history backend.
	SessionBackend SessionBackend
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	SessionTTL     time.Duration

	MaxBodyBytes  int64
	MaxAudioBytes int64

	// CORS allowlist; empty disables cross-origin access.
	CORSAllowedOrigins map[string]struct{}

	// Streaming.
	SSEPingInterval time.Duration
	WSWriteTimeout  time.Duration
	WSPingInterval  time.Duration

	// Operational defaults.
	EngineTimeout       time.Duration
	ReadHeaderTimeout   time.Duration
	ReadTimeout         time.Duration
	ShutdownGracePeriod time.Duration

	MetricsNamespace string
}

func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:                envOr("LINGUA_ADDR", ":8000"),
		WhisperBaseURL:      envOr("LINGUA_WHISPER_BASE_URL", ""),
		WhisperModel:        envOr("LINGUA_WHISPER_MODEL", "whisper-1"),
		LLMEngine:           LLMEngine(envOr("LINGUA_LLM_ENGINE", string(LLMEngineNone))),
		LlamaBaseURL:        envOr("LINGUA_LLAMA_BASE_URL", "http://127.0.0.1:8080"),
		LlamaModel:          envOr("LINGUA_LLAMA_MODEL", "local"),
		LlamaAPIKey:         envOr("LINGUA_LLAMA_API_KEY", ""),
		GeminiAPIKey:        envOr("LINGUA_GEMINI_API_KEY", ""),
		GeminiModel:         envOr("LINGUA_GEMINI_MODEL", "gemini-2.0-flash"),
		PiperBaseURL:        envOr("LINGUA_PIPER_BASE_URL", ""),
		SessionBackend:      SessionBackend(envOr("LINGUA_SESSION_BACKEND", string(SessionBackendMemory))),
		RedisAddr:           envOr("LINGUA_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:       envOr("LINGUA_REDIS_PASSWORD", ""),
		RedisDB:             envIntOr("LINGUA_REDIS_DB", 0),
		SessionTTL:          envDurationOr("LINGUA_SESSION_TTL", 24*time.Hour),
		MaxBodyBytes:        envInt64Or("LINGUA_MAX_BODY_BYTES", 1<<20),    // 1 MiB JSON
		MaxAudioBytes:       envInt64Or("LINGUA_MAX_AUDIO_BYTES", 16<<20), // 16 MiB uploads
		CORSAllowedOrigins:  make(map[string]struct{}),
		SSEPingInterval:     envDurationOr("LINGUA_SSE_PING_INTERVAL", 15*time.Second),
		WSWriteTimeout:      envDurationOr("LINGUA_WS_WRITE_TIMEOUT", 5*time.Second),
		WSPingInterval:      envDurationOr("LINGUA_WS_PING_INTERVAL", 20*time.Second),
		EngineTimeout:       envDurationOr("LINGUA_ENGINE_TIMEOUT", 2*time.Minute),
		ReadHeaderTimeout:   envDurationOr("LINGUA_READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:         envDurationOr("LINGUA_READ_TIMEOUT", 30*time.Second),
		ShutdownGracePeriod: envDurationOr("LINGUA_SHUTDOWN_GRACE_PERIOD", 30*time.Second),
		MetricsNamespace:    envOr("LINGUA_METRICS_NAMESPACE", "lingua"),
	}

	for _, origin := range splitCSV(os.Getenv("LINGUA_CORS_ORIGINS")) {
		cfg.CORSAllowedOrigins[origin] = struct{}{}
	}

	switch cfg.LLMEngine {
	case LLMEngineLlama, LLMEngineGemini, LLMEngineCanned, LLMEngineNone:
	default:
		return Config{}, fmt.Errorf("LINGUA_LLM_ENGINE must be one of llama|gemini|canned|none")
	}
	if cfg.LLMEngine == LLMEngineLlama && strings.TrimSpace(cfg.LlamaBaseURL) == "" {
		return Config{}, fmt.Errorf("LINGUA_LLAMA_BASE_URL must be set when LINGUA_LLM_ENGINE=llama")
	}
	if cfg.LLMEngine == LLMEngineGemini && strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return Config{}, fmt.Errorf("LINGUA_GEMINI_API_KEY must be set when LINGUA_LLM_ENGINE=gemini")
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return Config{}, fmt.Errorf("LINGUA_SESSION_BACKEND must be one of memory|redis")
	}
	if cfg.SessionBackend == SessionBackendRedis && strings.TrimSpace(cfg.RedisAddr) == "" {
		return Config{}, fmt.Errorf("LINGUA_REDIS_ADDR must be set when LINGUA_SESSION_BACKEND=redis")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("LINGUA_SESSION_TTL must be > 0")
	}

	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("LINGUA_MAX_BODY_BYTES must be > 0")
	}
	if cfg.MaxAudioBytes <= 0 {
		return Config{}, fmt.Errorf("LINGUA_MAX_AUDIO_BYTES must be > 0")
	}
	if cfg.SSEPingInterval <= 0 {
		return Config{}, fmt.Errorf("LINGUA_SSE_PING_INTERVAL must be > 0")
	}
	if cfg.WSWriteTimeout <= 0 {
		return Config{}, fmt.Errorf("LINGUA_WS_WRITE_TIMEOUT must be > 0")
	}
	if cfg.WSPingInterval <= 0 {
		return Config{}, fmt.Errorf("LINGUA_WS_PING_INTERVAL must be > 0")
	}
	if cfg.EngineTimeout <= 0 {
		return Config{}, fmt.Errorf("LINGUA_ENGINE_TIMEOUT must be > 0")
	}
	if cfg.ReadHeaderTimeout <= 0 {
		return Config{}, fmt.Errorf("LINGUA_READ_HEADER_TIMEOUT must be > 0")
	}
	if cfg.ReadTimeout <= 0 {
		return Config{}, fmt.Errorf("LINGUA_READ_TIMEOUT must be > 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return Config{}, fmt.Errorf("LINGUA_SHUTDOWN_GRACE_PERIOD must be > 0")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envIntOr(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func envInt64Or(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envDurationOr(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
