package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.LLMEngine != LLMEngineNone {
		t.Fatalf("LLMEngine = %q", cfg.LLMEngine)
	}
	if cfg.SessionBackend != SessionBackendMemory {
		t.Fatalf("SessionBackend = %q", cfg.SessionBackend)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("SessionTTL = %v", cfg.SessionTTL)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("LINGUA_ADDR", ":9000")
	t.Setenv("LINGUA_LLM_ENGINE", "llama")
	t.Setenv("LINGUA_LLAMA_BASE_URL", "http://model:8080")
	t.Setenv("LINGUA_CORS_ORIGINS", "http://localhost:3000, http://app.local")
	t.Setenv("LINGUA_SSE_PING_INTERVAL", "5s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.LlamaBaseURL != "http://model:8080" {
		t.Fatalf("LlamaBaseURL = %q", cfg.LlamaBaseURL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if _, ok := cfg.CORSAllowedOrigins["http://app.local"]; !ok {
		t.Fatal("missing trimmed origin")
	}
	if cfg.SSEPingInterval != 5*time.Second {
		t.Fatalf("SSEPingInterval = %v", cfg.SSEPingInterval)
	}
}

func TestLoadFromEnvRejectsBadEngine(t *testing.T) {
	t.Setenv("LINGUA_LLM_ENGINE", "gpt5")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}

func TestLoadFromEnvGeminiNeedsKey(t *testing.T) {
	t.Setenv("LINGUA_LLM_ENGINE", "gemini")
	t.Setenv("LINGUA_GEMINI_API_KEY", "")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for missing gemini key")
	}
}

func TestLoadFromEnvRejectsBadSessionBackend(t *testing.T) {
	t.Setenv("LINGUA_SESSION_BACKEND", "postgres")
	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("expected error for unknown session backend")
	}
}
