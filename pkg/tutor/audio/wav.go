package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hajimehoshi/go-mp3"
)

// EncodeWAV writes mono float samples as a 16-bit PCM WAV container.
func EncodeWAV(samples []float64, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8
	dataLen := uint32(len(samples) * 2)
	riffLen := 36 + dataLen

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, riffLen)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataLen)

	for _, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.Write(buf, binary.LittleEndian, int16(s*math.MaxInt16))
	}
	return buf.Bytes()
}

// DecodeWAV parses a 16-bit PCM WAV container into mono float samples.
// Stereo input is downmixed by averaging channels.
func DecodeWAV(data []byte) ([]float64, int, error) {
	if len(data) < 44 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, 0, errors.New("not a RIFF/WAVE container")
	}

	var (
		format     uint16
		channels   uint16
		sampleRate uint32
		bits       uint16
		pcm        []byte
	)

	// Walk the chunk list; fmt must precede data.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			size = len(data) - body
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, 0, errors.New("short fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bits = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++ // chunks are word-aligned
		}
	}

	if pcm == nil {
		return nil, 0, errors.New("missing data chunk")
	}
	if format != 1 || bits != 16 {
		return nil, 0, fmt.Errorf("unsupported wav encoding: format=%d bits=%d", format, bits)
	}
	if channels == 0 {
		return nil, 0, errors.New("zero channels")
	}

	frameSize := int(channels) * 2
	frames := len(pcm) / frameSize
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < int(channels); c++ {
			v := int16(binary.LittleEndian.Uint16(pcm[i*frameSize+c*2:]))
			sum += float64(v) / math.MaxInt16
		}
		samples[i] = sum / float64(channels)
	}
	return samples, int(sampleRate), nil
}

// DecodeMP3 decodes MP3 audio into mono float samples. go-mp3 always
// yields 16-bit stereo frames.
func DecodeMP3(data []byte) ([]float64, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 decode: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, fmt.Errorf("mp3 read: %w", err)
	}

	frames := len(raw) / 4
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		left := int16(binary.LittleEndian.Uint16(raw[i*4:]))
		right := int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
		samples[i] = (float64(left) + float64(right)) / 2 / math.MaxInt16
	}
	return samples, dec.SampleRate(), nil
}

// Decode sniffs the container and decodes to mono samples at the requested
// rate, resampling when the source rate differs.
func Decode(data []byte, targetRate int) ([]float64, error) {
	if len(data) == 0 {
		return nil, errors.New("empty audio")
	}

	var (
		samples []float64
		rate    int
		err     error
	)
	if len(data) >= 4 && string(data[0:4]) == "RIFF" {
		samples, rate, err = DecodeWAV(data)
	} else {
		samples, rate, err = DecodeMP3(data)
	}
	if err != nil {
		return nil, err
	}
	if rate != targetRate {
		samples = Resample(samples, rate, targetRate)
	}
	return samples, nil
}

// Resample converts samples between rates with linear interpolation.
func Resample(samples []float64, fromRate, toRate int) []float64 {
	if fromRate == toRate || len(samples) == 0 {
		return samples
	}
	n := int(float64(len(samples)) * float64(toRate) / float64(fromRate))
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	step := float64(len(samples)-1) / float64(n-1)
	if n == 1 {
		out[0] = samples[0]
		return out
	}
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = samples[j]*(1-frac) + samples[j+1]*frac
	}
	return out
}

// Normalize scales samples so the peak reaches targetLevel. Silence is
// returned unchanged.
func Normalize(samples []float64, targetLevel float64) []float64 {
	var peak float64
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return samples
	}
	gain := targetLevel / peak
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s * gain
	}
	return out
}
