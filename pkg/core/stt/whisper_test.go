package stt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWhisperTranscribe(t *testing.T) {
	var gotLanguage, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q, want /v1/audio/transcriptions", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotLanguage = r.FormValue("language")
		gotModel = r.FormValue("model")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"text":                 " Hola, ¿cómo estás? ",
			"language":             "es",
			"duration":             1.4,
			"language_probability": 0.97,
			"segments": []map[string]any{
				{"start": 0.0, "end": 1.4, "text": " Hola, ¿cómo estás? "},
			},
		})
	}))
	defer srv.Close()

	p := NewWhisper(srv.URL, "", "small")
	tr, err := p.Transcribe(context.Background(), strings.NewReader("RIFFfake"), TranscribeOptions{Language: "es"})
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if tr.Text != "Hola, ¿cómo estás?" {
		t.Fatalf("Text = %q, want trimmed transcript", tr.Text)
	}
	if tr.Language != "es" {
		t.Fatalf("Language = %q, want %q", tr.Language, "es")
	}
	if tr.LanguageProbability != 0.97 {
		t.Fatalf("LanguageProbability = %v, want 0.97", tr.LanguageProbability)
	}
	if len(tr.Segments) != 1 || tr.Segments[0].End != 1.4 {
		t.Fatalf("Segments = %+v, want one segment ending at 1.4", tr.Segments)
	}
	if gotLanguage != "es" {
		t.Fatalf("language form field = %q, want %q", gotLanguage, "es")
	}
	if gotModel != "small" {
		t.Fatalf("model form field = %q, want %q", gotModel, "small")
	}
}

func TestWhisperTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewWhisper(srv.URL, "", "small")
	_, err := p.Transcribe(context.Background(), strings.NewReader("x"), TranscribeOptions{})
	if err == nil {
		t.Fatalf("Transcribe() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "whisper error 500") {
		t.Fatalf("error = %v, want status in message", err)
	}
}
