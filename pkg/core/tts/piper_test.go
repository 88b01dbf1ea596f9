package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPiperSynthesize(t *testing.T) {
	var got piperRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write([]byte("RIFFfake"))
	}))
	defer srv.Close()

	p := NewPiper(srv.URL)
	audio, err := p.Synthesize(context.Background(), "Hola", SynthesizeOptions{
		Voice:       "es_ES-davefx-medium",
		LengthScale: 1.1,
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "RIFFfake" {
		t.Fatalf("audio = %q", audio)
	}
	if got.Text != "Hola" || got.Voice != "es_ES-davefx-medium" {
		t.Fatalf("request = %+v", got)
	}
}

func TestPiperSynthesizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such voice", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewPiper(srv.URL)
	if _, err := p.Synthesize(context.Background(), "Hola", SynthesizeOptions{Voice: "nope"}); err == nil {
		t.Fatal("expected error")
	}
}
