package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := NewValidationError("audio is empty")
	want := "validation_error: audio is empty"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorStringWithEngine(t *testing.T) {
	err := NewEngineUnavailableError("stt")
	want := "engine_unavailable_error: stt engine is not available (engine: stt)"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{NewValidationError("bad"), http.StatusBadRequest},
		{NewEngineUnavailableError("llm"), http.StatusServiceUnavailable},
		{NewNotFoundError("no session"), http.StatusNotFound},
		{NewUpstreamError("tts", errors.New("boom")), http.StatusBadGateway},
		{NewAPIError("oops"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", tt.err.Type, got, tt.want)
		}
	}
}

func TestUpstreamErrorUnwraps(t *testing.T) {
	underlying := errors.New("connection refused")
	err := NewUpstreamError("tts", underlying)

	if !errors.Is(err, underlying) {
		t.Fatalf("errors.Is(err, underlying) = false, want true")
	}
	if got, want := err.EngineError, "connection refused"; got != want {
		t.Fatalf("EngineError = %v, want %q", got, want)
	}
}

func TestFromErrorPassesThroughCoreError(t *testing.T) {
	orig := NewEngineUnavailableError("llm")
	got := FromError(fmt.Errorf("wrap: %w", orig), "req_1")
	if got != orig {
		t.Fatalf("FromError did not unwrap to the original *Error")
	}
	if got.RequestID != "req_1" {
		t.Fatalf("RequestID = %q, want %q", got.RequestID, "req_1")
	}
}

func TestFromErrorWrapsPlainError(t *testing.T) {
	got := FromError(errors.New("boom"), "req_2")
	if got.Type != ErrAPI {
		t.Fatalf("Type = %q, want %q", got.Type, ErrAPI)
	}
	if got.Message != "boom" {
		t.Fatalf("Message = %q, want %q", got.Message, "boom")
	}
}
