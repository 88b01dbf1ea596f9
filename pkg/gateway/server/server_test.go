package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
)

func testConfig() config.Config {
	return config.Config{
		Addr:                ":0",
		LLMEngine:           config.LLMEngineCanned,
		SessionBackend:      config.SessionBackendMemory,
		SessionTTL:          time.Hour,
		MaxBodyBytes:        1 << 20,
		MaxAudioBytes:       1 << 20,
		CORSAllowedOrigins:  map[string]struct{}{},
		SSEPingInterval:     15 * time.Second,
		WSWriteTimeout:      5 * time.Second,
		WSPingInterval:      20 * time.Second,
		EngineTimeout:       time.Minute,
		ReadHeaderTimeout:   time.Second,
		ReadTimeout:         time.Second,
		ShutdownGracePeriod: time.Second,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(context.Background(), testConfig(), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHandlerStackSmoke(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestReadyEndpoint(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET /readyz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz status = %d", resp.StatusCode)
	}
	var out struct {
		OK        bool   `json:"ok"`
		LLMEngine string `json:"llm_engine"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.OK || out.LLMEngine != "canned" {
		t.Fatalf("readyz = %+v", out)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
}

func TestTextTurnThroughFullStack(t *testing.T) {
	s := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	body := `{"message":"hello","language":"es"}`
	resp, err := http.Post(ts.URL+"/api/conversation/text", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, raw)
	}

	var out struct {
		SessionID   string `json:"session_id"`
		DisplayText string `json:"display_text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.DisplayText == "" {
		t.Fatal("empty display text from canned engine")
	}
}

func TestSTTDisabledByDefault(t *testing.T) {
	s := newTestServer(t)
	if s.pipe.STT != nil {
		t.Fatal("stt provider should be nil without a whisper base url")
	}
}

func TestGeminiEngineRequiresWorkingKeyOnlyAtCallTime(t *testing.T) {
	cfg := testConfig()
	cfg.LLMEngine = config.LLMEngineGemini
	cfg.GeminiAPIKey = "test-key"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if s.pipe.LLM == nil {
		t.Fatal("gemini provider not constructed")
	}
}
