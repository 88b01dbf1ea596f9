package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/pipeline"
)

// SpeakHandler handles POST /api/conversation/speak: a full spoken turn.
// The request is multipart with an `audio` file plus the usual
// conversation form fields; the reply always includes synthesized audio.
type SpeakHandler struct {
	Config   config.Config
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

func (h SpeakHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	start := time.Now()

	audio, err := readAudioUpload(r, h.Config.MaxAudioBytes)
	if err != nil {
		h.observe("400", start)
		writeError(w, r, err)
		return
	}

	req := formConversationRequest(r).toPipeline()
	req.Text = ""
	req.Audio = audio
	req.WithAudio = true

	res, err := h.Pipeline.Respond(r.Context(), req)
	if err != nil {
		apiErr := core.FromError(err, "")
		h.observe(httpStatusLabel(apiErr.HTTPStatus()), start)
		writeError(w, r, err)
		return
	}

	if res.AudioFallback && h.Metrics != nil {
		h.Metrics.RecordFallbackAudio()
	}
	out := turnResponseFrom(res)
	out.Transcription = res.UserText
	h.observe("200", start)
	writeJSON(w, http.StatusOK, out)
}

func (h SpeakHandler) observe(status string, start time.Time) {
	if h.Metrics != nil {
		h.Metrics.RecordRequest("speak", status, time.Since(start))
	}
}
