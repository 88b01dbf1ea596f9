package server

import (
	"context"
	"io"
	"time"

	"github.com/djbqrex/Lingua-Local/pkg/core/llm"
	"github.com/djbqrex/Lingua-Local/pkg/core/stt"
	"github.com/djbqrex/Lingua-Local/pkg/core/tts"
	"github.com/djbqrex/Lingua-Local/pkg/gateway/metrics"
)

// Engine providers are wrapped so every call lands in the latency and
// error metrics, whatever endpoint triggered it.

func instrumentSTT(p stt.Provider, m *metrics.Metrics) stt.Provider {
	if p == nil || m == nil {
		return p
	}
	return timedSTT{p: p, m: m}
}

type timedSTT struct {
	p stt.Provider
	m *metrics.Metrics
}

func (t timedSTT) Name() string { return t.p.Name() }

func (t timedSTT) Transcribe(ctx context.Context, audio io.Reader, opts stt.TranscribeOptions) (*stt.Transcript, error) {
	start := time.Now()
	transcript, err := t.p.Transcribe(ctx, audio, opts)
	t.m.RecordEngine("stt", time.Since(start), err)
	return transcript, err
}

func instrumentLLM(p llm.Provider, m *metrics.Metrics) llm.Provider {
	if p == nil || m == nil {
		return p
	}
	return timedLLM{p: p, m: m}
}

type timedLLM struct {
	p llm.Provider
	m *metrics.Metrics
}

func (t timedLLM) Name() string { return t.p.Name() }

func (t timedLLM) Generate(ctx context.Context, messages []llm.Message, opts llm.Options) (string, error) {
	start := time.Now()
	out, err := t.p.Generate(ctx, messages, opts)
	t.m.RecordEngine("llm", time.Since(start), err)
	return out, err
}

func (t timedLLM) GenerateStream(ctx context.Context, messages []llm.Message, opts llm.Options) (llm.Stream, error) {
	start := time.Now()
	stream, err := t.p.GenerateStream(ctx, messages, opts)
	if err != nil {
		t.m.RecordEngine("llm", time.Since(start), err)
		return nil, err
	}
	return timedStream{s: stream, m: t.m, start: start}, nil
}

// timedStream records the full stream duration when the consumer closes it.
type timedStream struct {
	s     llm.Stream
	m     *metrics.Metrics
	start time.Time
}

func (t timedStream) Next() (string, error) { return t.s.Next() }

func (t timedStream) Close() error {
	err := t.s.Close()
	t.m.RecordEngine("llm", time.Since(t.start), nil)
	return err
}

func instrumentTTS(p tts.Provider, m *metrics.Metrics) tts.Provider {
	if p == nil || m == nil {
		return p
	}
	return timedTTS{p: p, m: m}
}

type timedTTS struct {
	p tts.Provider
	m *metrics.Metrics
}

func (t timedTTS) Name() string { return t.p.Name() }

func (t timedTTS) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOptions) ([]byte, error) {
	start := time.Now()
	out, err := t.p.Synthesize(ctx, text, opts)
	t.m.RecordEngine("tts", time.Since(start), err)
	return out, err
}
