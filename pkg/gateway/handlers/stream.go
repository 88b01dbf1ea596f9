package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/sse"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/pipeline"
)

// StreamHandler handles POST /api/conversation/stream: one turn delivered
// as server-sent events. JSON bodies carry a text turn; multipart bodies
// carry an audio turn.
type StreamHandler struct {
	Config   config.Config
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func (h StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	req, err := h.decodeRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sw, err := sse.New(w)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.StreamOpened()
		defer h.Metrics.StreamClosed()
	}

	// Keep-alive pings until the turn finishes.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(h.Config.SSEPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := sw.Ping(); err != nil {
					return
				}
			}
		}
	}()

	err = h.Pipeline.Stream(r.Context(), req, func(ev pipeline.Event) error {
		if h.Metrics != nil {
			h.Metrics.RecordStreamEvent(ev.EventType())
		}
		return sw.Send(ev.EventType(), ev)
	})
	if err != nil && h.Logger != nil {
		h.Logger.Debug("stream ended early", "error", err)
	}
}

func (h StreamHandler) decodeRequest(r *http.Request) (pipeline.Request, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		audio, err := readAudioUpload(r, h.Config.MaxAudioBytes)
		if err != nil {
			return pipeline.Request{}, err
		}
		req := formConversationRequest(r).toPipeline()
		req.Text = ""
		req.Audio = audio
		return req, nil
	}

	var cr conversationRequest
	if err := decodeJSON(r, h.Config.MaxBodyBytes, &cr); err != nil {
		return pipeline.Request{}, err
	}
	return cr.toPipeline(), nil
}
