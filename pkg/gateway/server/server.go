// Package server wires the conversation pipeline, engine providers and
// HTTP surface together from configuration.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/djbqrex/Lingua-Local/pkg/core/llm"
	"github.com/djbqrex/Lingua-Local/pkg/core/stt"
	"github.com/djbqrex/Lingua-Local/pkg/core/tts"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/handlers"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/mw"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/audio"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/pipeline"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/session"
)

type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	mux     *http.ServeMux
	metrics *metrics.Metrics

	pipe  *pipeline.Pipeline
	store session.Store
}

// New builds the full gateway: engine providers from config, the session
// store, the pipeline, and all routes.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := &http.Client{
		Timeout: cfg.EngineTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:   true,
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	m := metrics.New(cfg.MetricsNamespace)

	sttProvider, err := buildSTT(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	llmProvider, err := buildLLM(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}
	ttsProvider := buildTTS(cfg, httpClient)

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	var assembler *audio.Assembler
	if ttsProvider != nil {
		assembler = &audio.Assembler{
			TTS:    instrumentTTS(ttsProvider, m),
			Logger: logger,
		}
	}

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		mux:     http.NewServeMux(),
		metrics: m,
		store:   store,
		pipe: &pipeline.Pipeline{
			STT:       instrumentSTT(sttProvider, m),
			LLM:       instrumentLLM(llmProvider, m),
			Assembler: assembler,
			Store:     store,
			Logger:    logger,
		},
	}

	s.routes()
	return s, nil
}

func buildSTT(cfg config.Config, client *http.Client) (stt.Provider, error) {
	if cfg.WhisperBaseURL == "" {
		return nil, nil
	}
	return stt.NewWhisperWithClient(cfg.WhisperBaseURL, "", cfg.WhisperModel, client), nil
}

func buildLLM(ctx context.Context, cfg config.Config, client *http.Client) (llm.Provider, error) {
	switch cfg.LLMEngine {
	case config.LLMEngineLlama:
		return llm.NewOpenAIWithClient(cfg.LlamaBaseURL, cfg.LlamaAPIKey, cfg.LlamaModel, client), nil
	case config.LLMEngineGemini:
		provider, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		return provider, nil
	case config.LLMEngineCanned:
		return llm.NewCanned(), nil
	default:
		return nil, nil
	}
}

func buildTTS(cfg config.Config, client *http.Client) tts.Provider {
	if cfg.PiperBaseURL == "" {
		return nil
	}
	return tts.NewPiperWithClient(cfg.PiperBaseURL, client)
}

func buildStore(cfg config.Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return session.NewStore(session.StoreTypeRedis,
			session.WithRedisClient(client),
			session.WithRedisTTL(cfg.SessionTTL),
		)
	default:
		return session.NewStore(session.StoreTypeMemory)
	}
}

func (s *Server) routes() {
	s.mux.Handle("/healthz", handlers.HealthHandler{})
	s.mux.Handle("/readyz", handlers.ReadyHandler{Config: s.cfg})
	s.mux.Handle("/metrics", s.metrics.Handler())

	s.mux.Handle("/api/conversation/text", handlers.TextHandler{
		Config:   s.cfg,
		Pipeline: s.pipe,
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
	s.mux.Handle("/api/conversation/speak", handlers.SpeakHandler{
		Config:   s.cfg,
		Pipeline: s.pipe,
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
	s.mux.Handle("/api/conversation/stream", handlers.StreamHandler{
		Config:   s.cfg,
		Pipeline: s.pipe,
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
	s.mux.Handle("/api/conversation/live", handlers.LiveHandler{
		Config:   s.cfg,
		Pipeline: s.pipe,
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
	s.mux.Handle("/api/conversation/transcribe", handlers.TranscribeHandler{
		Config:  s.cfg,
		STT:     s.pipe.STT,
		Logger:  s.logger,
		Metrics: s.metrics,
	})
	s.mux.Handle("/api/conversation/synthesize", handlers.SynthesizeHandler{
		Config:    s.cfg,
		Assembler: s.pipe.Assembler,
		Logger:    s.logger,
		Metrics:   s.metrics,
	})
	s.mux.Handle("/api/conversation/session/{id}", handlers.SessionHandler{
		Store:   s.store,
		Logger:  s.logger,
		Metrics: s.metrics,
	})
	s.mux.Handle("/api/conversation/voices", handlers.VoicesHandler{})
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = mw.CORS(s.cfg, h)
	h = mw.Recover(s.logger, h)
	h = mw.AccessLog(s.logger, h)
	h = mw.RequestID(h)
	return h
}

// Close releases the session store.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
