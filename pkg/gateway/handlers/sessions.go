package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/session"
)

// SessionHandler handles /api/conversation/session/{id}: GET reads the
// retained history, DELETE clears it.
type SessionHandler struct {
	Store   session.Store
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

type sessionResponse struct {
	SessionID string            `json:"session_id"`
	Messages  []session.Message `json:"messages"`
}

type sessionClearedResponse struct {
	SessionID string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

func (h SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		h.observe("400", start)
		writeError(w, r, core.NewValidationErrorWithParam("session id is required", "id"))
		return
	}

	switch r.Method {
	case http.MethodGet:
		history, err := h.Store.History(r.Context(), id)
		if err != nil {
			h.observe("500", start)
			writeError(w, r, err)
			return
		}
		if history == nil {
			history = []session.Message{}
		}
		h.observe("200", start)
		writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, Messages: history})

	case http.MethodDelete:
		if err := h.Store.Clear(r.Context(), id); err != nil {
			h.observe("500", start)
			writeError(w, r, err)
			return
		}
		h.observe("200", start)
		writeJSON(w, http.StatusOK, sessionClearedResponse{SessionID: id, Cleared: true})

	default:
		methodNotAllowed(w, r, "GET, DELETE")
	}
}

func (h SessionHandler) observe(status string, start time.Time) {
	if h.Metrics != nil {
		h.Metrics.RecordRequest("session", status, time.Since(start))
	}
}
