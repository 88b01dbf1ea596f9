package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/core/stt"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
)

// TranscribeHandler handles POST /api/conversation/transcribe: a
// standalone speech-to-text passthrough.
type TranscribeHandler struct {
	Config  config.Config
	STT     stt.Provider
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

func (h TranscribeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	start := time.Now()

	if h.STT == nil {
		h.observe("503", start)
		writeError(w, r, core.NewEngineUnavailableError("stt"))
		return
	}

	audio, err := readAudioUpload(r, h.Config.MaxAudioBytes)
	if err != nil {
		h.observe("400", start)
		writeError(w, r, err)
		return
	}

	transcript, err := h.STT.Transcribe(r.Context(), bytes.NewReader(audio), stt.TranscribeOptions{
		Language: r.FormValue("language"),
	})
	if err != nil {
		apiErr := core.FromError(err, "")
		h.observe(httpStatusLabel(apiErr.HTTPStatus()), start)
		writeError(w, r, err)
		return
	}

	h.observe("200", start)
	writeJSON(w, http.StatusOK, transcript)
}

func (h TranscribeHandler) observe(status string, start time.Time) {
	if h.Metrics != nil {
		h.Metrics.RecordRequest("transcribe", status, time.Since(start))
	}
}
