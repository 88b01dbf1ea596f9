package audio

import (
	"context"
	"log/slog"
	"math"

	"github.com/djbqrex/Lingua-Local/pkg/core/tts"
	"github.com/djbqrex/Lingua-Local/pkg/tutor/segment"
)

// InternalSampleRate is the rate all segment audio is mixed at before the
// final WAV is produced.
const InternalSampleRate = 22050

const (
	segmentPause  = 0.16 // seconds of silence between spoken segments
	peakLevel     = 0.9
	toneFrequency = 440.0
	toneAmplitude = 0.15
	toneMinLength = 0.5  // seconds
	tonePerChar   = 0.08 // seconds of tone per character of text
	toneMaxLength = 3.0
)

// Assembler turns classified reply segments into a single WAV utterance,
// synthesizing each segment with the voice mapped to its language.
type Assembler struct {
	TTS    tts.Provider
	Logger *slog.Logger
}

// Result describes one assembled utterance.
type Result struct {
	WAV        []byte
	SampleRate int
	// Fallback is true when no segment produced audio and a placeholder
	// tone was emitted instead.
	Fallback bool
}

// SynthesizeSegments renders each segment with its language's voice and
// joins the results with short pauses. It never fails: segments whose
// synthesis errors are dropped, and if nothing survives a soft placeholder
// tone is returned so the client always has something to play.
func (a *Assembler) SynthesizeSegments(ctx context.Context, segments []segment.Segment, voiceForLanguage map[string]string, lengthScale float64) Result {
	log := a.Logger
	if log == nil {
		log = slog.Default()
	}

	var (
		parts     [][]float64
		textLen   int
		succeeded int
	)
	for _, seg := range segments {
		textLen += len(seg.Text)
		if a.TTS == nil {
			continue
		}
		voice := voiceForLanguage[seg.Language]
		raw, err := a.TTS.Synthesize(ctx, seg.Text, tts.SynthesizeOptions{
			Voice:       voice,
			LengthScale: lengthScale,
			SampleRate:  InternalSampleRate,
		})
		if err != nil {
			log.Warn("segment synthesis failed", "voice", voice, "language", seg.Language, "error", err)
			continue
		}
		samples, err := Decode(raw, InternalSampleRate)
		if err != nil {
			log.Warn("segment decode failed", "voice", voice, "error", err)
			continue
		}
		if len(samples) == 0 {
			continue
		}
		parts = append(parts, samples)
		succeeded++
	}

	if len(parts) == 0 {
		tone := placeholderTone(textLen, lengthScale)
		return Result{WAV: EncodeWAV(tone, InternalSampleRate), SampleRate: InternalSampleRate, Fallback: true}
	}

	pause := make([]float64, int(segmentPause*InternalSampleRate))
	var mixed []float64
	for i, p := range parts {
		if i > 0 {
			mixed = append(mixed, pause...)
		}
		mixed = append(mixed, p...)
	}
	mixed = Normalize(mixed, peakLevel)
	return Result{WAV: EncodeWAV(mixed, InternalSampleRate), SampleRate: InternalSampleRate}
}

// placeholderTone produces a quiet sine so the response is never silent.
// Its length tracks the reply text so playback feels proportionate.
func placeholderTone(textLen int, lengthScale float64) []float64 {
	if lengthScale <= 0 {
		lengthScale = 1
	}
	dur := float64(textLen) * tonePerChar * lengthScale
	if dur < toneMinLength {
		dur = toneMinLength
	}
	if dur > toneMaxLength {
		dur = toneMaxLength
	}
	n := int(dur * InternalSampleRate)
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / InternalSampleRate
		out[i] = toneAmplitude * math.Sin(2*math.Pi*toneFrequency*t)
	}
	return out
}
