package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/djbqrex/Lingua-Local/pkg/gateway/config"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/pipeline"
)

// LiveHandler handles GET /api/conversation/live: a WebSocket that runs
// repeated conversation turns over one connection. Each client JSON
// message is one turn request; the server answers with the same event
// sequence the SSE endpoint uses, framed as {"type": ..., "data": ...}.
type LiveHandler struct {
	Config   config.Config
	Pipeline *pipeline.Pipeline
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

type liveRequest struct {
	conversationRequest
	// AudioBase64 carries spoken input; Message carries typed input.
	AudioBase64 string `json:"audio_base64,omitempty"`
}

type liveFrame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !h.originAllowed(r) {
		http.Error(w, "origin is not allowed", http.StatusForbidden)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	if h.Metrics != nil {
		h.Metrics.StreamOpened()
		defer h.Metrics.StreamClosed()
	}
	conn.SetReadLimit(h.Config.MaxAudioBytes * 2)

	// Keep-alive pings; a dead peer surfaces as a write error.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(h.Config.WSPingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				deadline := time.Now().Add(h.Config.WSWriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
					return
				}
			}
		}
	}()

	// Session identity is sticky for the connection once established.
	connSession := ""

	for {
		var in liveRequest
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && h.Logger != nil {
				h.Logger.Debug("live connection closed", "error", err)
			}
			return
		}

		req := in.toPipeline()
		if in.AudioBase64 != "" {
			audio, err := base64.StdEncoding.DecodeString(in.AudioBase64)
			if err != nil {
				frame := liveFrame{Type: "error", Data: pipeline.ErrorEvent{Message: "invalid base64 audio"}}
				if err := h.writeFrame(conn, frame); err != nil {
					return
				}
				continue
			}
			req.Text = ""
			req.Audio = audio
		}

		if strings.TrimSpace(req.SessionID) == "" {
			if connSession == "" {
				connSession = "live-" + uuid.NewString()
			}
			req.SessionID = connSession
		}

		err := h.Pipeline.Stream(r.Context(), req, func(ev pipeline.Event) error {
			if h.Metrics != nil {
				h.Metrics.RecordStreamEvent(ev.EventType())
			}
			return h.writeFrame(conn, liveFrame{Type: ev.EventType(), Data: ev})
		})
		if err != nil {
			return
		}
	}
}

func (h LiveHandler) writeFrame(conn *websocket.Conn, frame liveFrame) error {
	conn.SetWriteDeadline(time.Now().Add(h.Config.WSWriteTimeout))
	return conn.WriteJSON(frame)
}

func (h LiveHandler) originAllowed(r *http.Request) bool {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if len(h.Config.CORSAllowedOrigins) == 0 {
		return true
	}
	_, ok := h.Config.CORSAllowedOrigins[origin]
	return ok
}
