package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/pipeline"
)

// TextHandler handles POST /api/conversation/text: one non-streaming
// text turn, optionally with synthesized audio in the response.
type TextHandler struct {
	Config   config.Config
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func (h TextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	start := time.Now()

	var cr conversationRequest
	if err := decodeJSON(r, h.Config.MaxBodyBytes, &cr); err != nil {
		h.observe("400", start)
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(cr.Message) == "" {
		h.observe("400", start)
		writeError(w, r, core.NewValidationErrorWithParam("message is required", "message"))
		return
	}

	res, err := h.Pipeline.Respond(r.Context(), cr.toPipeline())
	if err != nil {
		apiErr := core.FromError(err, "")
		h.observe(httpStatusLabel(apiErr.HTTPStatus()), start)
		writeError(w, r, err)
		return
	}

	if res.AudioFallback && h.Metrics != nil {
		h.Metrics.RecordFallbackAudio()
	}
	h.observe("200", start)
	writeJSON(w, http.StatusOK, turnResponseFrom(res))
}

func (h TextHandler) observe(status string, start time.Time) {
	if h.Metrics != nil {
		h.Metrics.RecordRequest("text", status, time.Since(start))
	}
}
