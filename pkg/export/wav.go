// Package export renders pattern snapshots into complete in-memory byte
// streams: PCM WAV audio and Standard MIDI Files. Callers persist the
// result with a single atomic file write.
package export

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// Defaults for WAV rendering.
const (
	DefaultSampleRate = 44100
	DefaultDuration   = 2.0
)

// WAV synthesizes the store into a RIFF/WAVE container: PCM, mono,
// 16-bit signed. Only track 0 of each kind is rendered, and every
// active step is summed into the same full-length buffer with no
// per-step time offset; the result is an additive drone approximation
// of the pattern, not a sequenced render. That is the intended
// behavior of this exporter, kept as-is.
func WAV(store *pattern.Store, durationSeconds float64, sampleRate int) ([]byte, error) {
	if durationSeconds <= 0 {
		return nil, fmt.Errorf("export: duration must be positive, got %g", durationSeconds)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("export: sample rate must be positive, got %d", sampleRate)
	}

	n := int(durationSeconds * float64(sampleRate))
	audio := make([]float64, n)

	// Drum track 0: decaying sine bursts, 100 Hz per sound step up.
	drums := &store.Drums[0]
	for s := 0; s < drums.Length; s++ {
		c := drums.Steps[s]
		if !c.Active {
			continue
		}
		freq := 100.0 + 100.0*float64(c.Sound)
		amp := float64(c.Velocity) / 100.0
		for i := range audio {
			t := float64(i) / float64(sampleRate)
			audio[i] += math.Sin(2*math.Pi*freq*t) * math.Exp(-10*t) * amp
		}
	}

	// Synth track 0: equal-tempered oscillator with a decay envelope.
	synths := &store.Synths[0]
	for s := 0; s < synths.Length; s++ {
		c := synths.Steps[s]
		if !c.Active {
			continue
		}
		freq := 440.0 * math.Pow(2, (float64(c.Note)+float64(c.Octave-4)*12)/12)
		amp := float64(c.Velocity) / 100.0
		for i := range audio {
			t := float64(i) / float64(sampleRate)
			audio[i] += oscSample(c.Waveform, freq, t) * math.Exp(-5*t) * amp
		}
	}

	samples := quantize(audio)

	var buf bytes.Buffer
	w := newWAVWriter(&buf, sampleRate, 1)
	w.writeHeader(len(samples) * 2)
	w.writeSamples(samples)
	return buf.Bytes(), nil
}

// oscSample evaluates one waveform at time t: 1 is square, 0 is
// triangle, everything else renders as a sine.
func oscSample(waveform int, freq, t float64) float64 {
	switch waveform {
	case 1: // square
		s := math.Sin(2 * math.Pi * freq * t)
		if s > 0 {
			return 1
		}
		if s < 0 {
			return -1
		}
		return 0
	case 0: // triangle
		ft := freq * t
		return math.Abs(2*(ft-math.Floor(ft+0.5))) - 1
	default: // sine
		return math.Sin(2 * math.Pi * freq * t)
	}
}

// quantize normalizes by the peak magnitude and converts to signed
// 16-bit samples. An all-zero buffer stays silent instead of dividing
// by zero.
func quantize(audio []float64) []int16 {
	peak := 0.0
	for _, s := range audio {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	out := make([]int16, len(audio))
	if peak == 0 {
		return out
	}
	for i, s := range audio {
		out[i] = int16(math.Round(s / peak * 32767))
	}
	return out
}

// wavWriter writes the RIFF/WAVE container.
type wavWriter struct {
	buf        *bytes.Buffer
	sampleRate int
	channels   int
}

func newWAVWriter(buf *bytes.Buffer, sampleRate, channels int) *wavWriter {
	return &wavWriter{buf: buf, sampleRate: sampleRate, channels: channels}
}

func (w *wavWriter) writeHeader(dataSize int) {
	// RIFF header
	w.buf.WriteString("RIFF")
	binary.Write(w.buf, binary.LittleEndian, uint32(dataSize+36))
	w.buf.WriteString("WAVE")

	// fmt chunk
	w.buf.WriteString("fmt ")
	binary.Write(w.buf, binary.LittleEndian, uint32(16))           // chunk size
	binary.Write(w.buf, binary.LittleEndian, uint16(1))            // PCM format
	binary.Write(w.buf, binary.LittleEndian, uint16(w.channels))   // channels
	binary.Write(w.buf, binary.LittleEndian, uint32(w.sampleRate)) // sample rate
	byteRate := w.sampleRate * w.channels * 2
	binary.Write(w.buf, binary.LittleEndian, uint32(byteRate)) // byte rate
	blockAlign := w.channels * 2
	binary.Write(w.buf, binary.LittleEndian, uint16(blockAlign)) // block align
	binary.Write(w.buf, binary.LittleEndian, uint16(16))         // bits per sample

	// data chunk header
	w.buf.WriteString("data")
	binary.Write(w.buf, binary.LittleEndian, uint32(dataSize))
}

func (w *wavWriter) writeSamples(samples []int16) {
	for _, s := range samples {
		binary.Write(w.buf, binary.LittleEndian, s)
	}
}
