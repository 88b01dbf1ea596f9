package handlers

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/djbqrex/Lingua-Local/pkg/core"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/mw"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/pipeline"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/voices"
)

// conversationRequest is the JSON body shared by the conversation
// endpoints. Multipart requests carry the same fields as form values
// alongside the audio file.
type conversationRequest struct {
	SessionID           string  `json:"session_id"`
	Message             string  `json:"message"`
	Language            string  `json:"language"`
	ExplanationLanguage string  `json:"explanation_language"`
	Difficulty          string  `json:"difficulty"`
	Scenario            string  `json:"scenario"`
	TeachingIntensity   string  `json:"teaching_intensity"`
	VoiceStyle          string  `json:"voice_style"`
	Voice               string  `json:"voice"`
	ExplanationVoice    string  `json:"explanation_voice"`
	LengthScale         float64 `json:"length_scale"`
	WithAudio           bool    `json:"with_audio"`
}

func (cr conversationRequest) toPipeline() pipeline.Request {
	return pipeline.Request{
		SessionID:           cr.SessionID,
		Text:                cr.Message,
		TargetLanguage:      cr.Language,
		ExplanationLanguage: cr.ExplanationLanguage,
		Difficulty:          cr.Difficulty,
		Scenario:            cr.Scenario,
		TeachingIntensity:   cr.TeachingIntensity,
		VoiceStyle:          cr.VoiceStyle,
		TargetVoice:         cr.Voice,
		ExplanationVoice:    cr.ExplanationVoice,
		LengthScale:         cr.LengthScale,
		WithAudio:           cr.WithAudio,
	}
}

type segmentPayload struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

// turnResponse is the JSON shape of a completed conversation turn.
type turnResponse struct {
	SessionID     string           `json:"session_id"`
	Response      string           `json:"response"`
	DisplayText   string           `json:"display_text"`
	Language      string           `json:"language"`
	Segments      []segmentPayload `json:"segments"`
	Voices        voices.Selection `json:"voices"`
	Transcription string           `json:"transcription,omitempty"`
	DetectedLang  string           `json:"detected_language,omitempty"`
	AudioBase64   string           `json:"audio_base64,omitempty"`
	AudioFallback bool             `json:"audio_fallback,omitempty"`
}

func turnResponseFrom(res *pipeline.Result) turnResponse {
	voiceFor := res.Selection.VoiceMap()
	segments := make([]segmentPayload, 0, len(res.Segments))
	for _, seg := range res.Segments {
		segments = append(segments, segmentPayload{
			Text:     seg.Text,
			Language: seg.Language,
			Voice:    voiceFor[seg.Language],
		})
	}

	out := turnResponse{
		SessionID:     res.SessionID,
		Response:      res.Response,
		DisplayText:   res.DisplayText,
		Language:      res.Language,
		Segments:      segments,
		Voices:        res.Selection,
		DetectedLang:  res.DetectedLanguage,
		AudioFallback: res.AudioFallback,
	}
	if len(res.WAV) > 0 {
		out.AudioBase64 = base64.StdEncoding.EncodeToString(res.WAV)
	}
	return out
}

// decodeJSON strictly decodes a JSON body, rejecting unknown fields and
// trailing content.
func decodeJSON(r *http.Request, maxBytes int64, dst any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return core.NewValidationError("invalid JSON body: " + err.Error())
	}
	if dec.More() {
		return core.NewValidationError("unexpected trailing content after JSON body")
	}
	return nil
}

// formConversationRequest reads conversation fields out of a parsed
// multipart form.
func formConversationRequest(r *http.Request) conversationRequest {
	cr := conversationRequest{
		SessionID:           r.FormValue("session_id"),
		Message:             r.FormValue("message"),
		Language:            r.FormValue("language"),
		ExplanationLanguage: r.FormValue("explanation_language"),
		Difficulty:          r.FormValue("difficulty"),
		Scenario:            r.FormValue("scenario"),
		TeachingIntensity:   r.FormValue("teaching_intensity"),
		VoiceStyle:          r.FormValue("voice_style"),
		Voice:               r.FormValue("voice"),
		ExplanationVoice:    r.FormValue("explanation_voice"),
	}
	if raw := strings.TrimSpace(r.FormValue("length_scale")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			cr.LengthScale = v
		}
	}
	if raw := strings.TrimSpace(r.FormValue("with_audio")); raw != "" {
		cr.WithAudio = raw == "true" || raw == "1"
	}
	return cr
}

// readAudioUpload pulls the uploaded audio file out of a multipart request.
func readAudioUpload(r *http.Request, maxBytes int64) ([]byte, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, core.NewValidationError("invalid multipart form: " + err.Error())
	}
	file, _, err := r.FormFile("audio")
	if err != nil {
		return nil, core.NewValidationErrorWithParam("audio file is required", "audio")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, core.NewValidationError("failed to read audio upload")
	}
	if int64(len(data)) > maxBytes {
		return nil, core.NewValidationError("audio upload exceeds size limit")
	}
	if len(data) == 0 {
		return nil, core.NewValidationErrorWithParam("audio file is empty", "audio")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	apiErr := core.FromError(err, reqID)
	writeJSON(w, apiErr.HTTPStatus(), core.Envelope{Error: apiErr})
}

func httpStatusLabel(status int) string {
	return strconv.Itoa(status)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	reqID, _ := mw.RequestIDFrom(r.Context())
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, core.Envelope{Error: &core.Error{
		Type:      core.ErrValidation,
		Message:   "method not allowed",
		RequestID: reqID,
	}})
}
