package pipeline

// Event is one frame of a streaming conversation turn. Transports (SSE,
// WebSocket) serialize the payload under the name returned by EventType.
type Event interface {
	EventType() string
}

// StartEvent opens every stream and tells the client which phase the
// turn begins in.
type StartEvent struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

func (StartEvent) EventType() string { return "start" }

// TranscriptionEvent reports the recognized user speech. Emitted only
// for audio input.
type TranscriptionEvent struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (TranscriptionEvent) EventType() string { return "transcription" }

// ResponseStartEvent marks the boundary between setup and reply chunks.
type ResponseStartEvent struct{}

func (ResponseStartEvent) EventType() string { return "response_start" }

// ResponseChunkEvent carries one incremental piece of the raw tagged reply.
type ResponseChunkEvent struct {
	Text string `json:"text"`
}

func (ResponseChunkEvent) EventType() string { return "response_chunk" }

// CompleteEvent closes a successful stream with the full reply.
type CompleteEvent struct {
	Response    string `json:"response"`
	DisplayText string `json:"display_text"`
	Language    string `json:"language"`
}

func (CompleteEvent) EventType() string { return "complete" }

// ErrorEvent closes a failed stream. No further events follow it.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventType() string { return "error" }
