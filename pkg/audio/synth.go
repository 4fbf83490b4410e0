// Package audio implements the realtime tone generator behind the
// engine's SoundDevice interface: triggers allocate short-lived voices
// that are mixed into a mono PCM stream.
package audio

import (
	"math"
	"sync"

	"github.com/tcsenpai/neoretrosynth/pkg/engine"
	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// Decay rates matching the offline renderer.
const (
	drumDecay  = 10.0
	synthDecay = 5.0
)

// voiceFloor is the amplitude below which a voice is dropped.
const voiceFloor = 0.001

// PitchToFreq converts a chromatic pitch index (0 = C1, 45 = A4) to Hz.
func PitchToFreq(pitch int) float64 {
	return 440.0 * math.Pow(2.0, float64(pitch-45)/12.0)
}

// voice is one sounding trigger: an oscillator with an exponential
// decay envelope and a precomputed lifetime.
type voice struct {
	waveform int // 0-3: triangle, square, pulse, noise
	drum     bool
	freq     float64
	phase    float64
	amp      float64
	decay    float64
	age      int // samples rendered so far
	life     int // samples until the envelope falls below voiceFloor
	noise    uint32
}

// Synth mixes voices into float samples. It implements
// engine.SoundDevice; Trigger never blocks beyond a short mutex hold.
type Synth struct {
	mu         sync.Mutex
	sampleRate float64
	voices     []*voice
}

// NewSynth creates a tone generator at the given sample rate.
func NewSynth(sampleRate int) *Synth {
	return &Synth{sampleRate: float64(sampleRate)}
}

// Trigger implements engine.SoundDevice. Drum triggers become decaying
// sine bursts at 100 Hz per sound step; synth triggers run the cell's
// waveform through the same decay the offline renderer uses.
func (s *Synth) Trigger(channel int, t engine.Trigger) {
	v := &voice{
		amp:   float64(t.Volume) / float64(engine.MaxVolume),
		noise: 0x12345,
	}
	switch t.Kind {
	case pattern.Drum:
		v.drum = true
		v.freq = 100.0 + 100.0*float64(t.Sound)
		v.decay = drumDecay
	case pattern.Synth:
		v.waveform = t.Waveform
		v.freq = PitchToFreq(t.Pitch)
		v.decay = synthDecay
	}
	if v.amp <= 0 {
		return
	}
	// Lifetime: when amp * exp(-decay t) crosses the floor.
	seconds := math.Log(v.amp/voiceFloor) / v.decay
	if t.Duration > 0 && seconds > t.Duration*4 {
		seconds = t.Duration * 4
	}
	v.life = int(seconds * s.sampleRate)
	if v.life <= 0 {
		return
	}

	s.mu.Lock()
	s.voices = append(s.voices, v)
	s.mu.Unlock()
}

// ReadSamples mixes all live voices into buf and retires dead ones.
func (s *Synth) ReadSamples(buf []float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range buf {
		buf[i] = 0
	}

	live := s.voices[:0]
	for _, v := range s.voices {
		for i := range buf {
			if v.age >= v.life {
				break
			}
			buf[i] += v.sample(s.sampleRate)
			v.age++
		}
		if v.age < v.life {
			live = append(live, v)
		}
	}
	s.voices = live

	// Soft limit to avoid hard clipping when voices stack up.
	for i, x := range buf {
		if x > 0.9 {
			buf[i] = 0.9 + 0.1*math.Tanh((x-0.9)*10)
		} else if x < -0.9 {
			buf[i] = -0.9 - 0.1*math.Tanh((-x-0.9)*10)
		}
	}
}

// sample renders one sample and advances the voice.
func (v *voice) sample(sampleRate float64) float64 {
	t := float64(v.age) / sampleRate
	env := math.Exp(-v.decay * t)

	v.phase += v.freq / sampleRate
	if v.phase >= 1.0 {
		v.phase -= 1.0
	}

	var wave float64
	switch {
	case v.drum:
		wave = math.Sin(2 * math.Pi * v.phase)
	case v.waveform == 0: // triangle
		if v.phase < 0.5 {
			wave = 4.0*v.phase - 1.0
		} else {
			wave = 3.0 - 4.0*v.phase
		}
	case v.waveform == 1: // square
		if v.phase < 0.5 {
			wave = 1.0
		} else {
			wave = -1.0
		}
	case v.waveform == 2: // pulse, 25% duty
		if v.phase < 0.25 {
			wave = 1.0
		} else {
			wave = -1.0
		}
	default: // noise
		v.noise = v.noise*1103515245 + 12345
		wave = float64(int32(v.noise)) / float64(math.MaxInt32)
	}

	return wave * env * v.amp
}
