package audio

import (
	"testing"

	"github.com/tcsenpai/neoretrosynth/pkg/engine"
	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

func TestPCM16Clamp(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{0.5, 16383},
		{1, 32767},
		{1.5, 32767},
		{-1.5, -32767},
	}
	for _, tt := range tests {
		if got := pcm16(tt.in); got != tt.want {
			t.Errorf("pcm16(%g) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMixReaderStreamsTheSynth(t *testing.T) {
	synth := NewSynth(8000)
	synth.Trigger(0, engine.Trigger{
		Kind:     pattern.Synth,
		Pitch:    45,
		Waveform: 1,
		Volume:   engine.MaxVolume,
		Duration: 0.25,
	})

	r := &mixReader{synth: synth, done: make(chan struct{})}
	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read = %d bytes, want %d", n, len(buf))
	}

	nonzero := false
	for _, b := range buf {
		if b != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("a live voice produced an all-zero stream")
	}
}

func TestMixReaderServesSilenceAfterClose(t *testing.T) {
	synth := NewSynth(8000)
	synth.Trigger(0, engine.Trigger{
		Kind:     pattern.Drum,
		Volume:   engine.MaxVolume,
		Duration: 0.25,
	})

	done := make(chan struct{})
	close(done)
	r := &mixReader{synth: synth, done: done}

	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("Read = %d bytes, want %d", n, len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d = %d after close, want silence", i, b)
		}
	}
}

func TestZeroVolumeTriggerIsSilent(t *testing.T) {
	synth := NewSynth(8000)
	synth.Trigger(0, engine.Trigger{
		Kind:     pattern.Drum,
		Volume:   0,
		Duration: 0.25,
	})

	mix := make([]float64, 128)
	synth.ReadSamples(mix)
	for i, x := range mix {
		if x != 0 {
			t.Fatalf("sample %d = %g for a zero-volume trigger", i, x)
		}
	}
}
