// Package engine implements the sequencing core: transport, step clock,
// trigger dispatch, loop recorder and presets. The engine has no timing
// source of its own; an external driver calls Tick once per frame at
// TicksPerSecond.
package engine

import (
	"sync"

	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// Transport limits and tick rate.
const (
	MinBPM  = 60
	MaxBPM  = 300
	BPMStep = 5

	// TicksPerSecond is the frame rate of the external tick driver.
	TicksPerSecond = 60
)

// MaxVolume is the top of the 0-7 amplitude scale.
const MaxVolume = 7

// Engine is the owning aggregate for all sequencer state. All methods
// are safe for concurrent use; exporters and the display read through
// snapshot accessors.
type Engine struct {
	mu sync.Mutex

	store *pattern.Store
	steps [pattern.NumTracks]int // current step per track

	bpm     int
	running bool
	frame   int // elapsed ticks within the current step
	ticks   int // total ticks seen, drives the loop player

	loop loopState
	arp  Arpeggiator
	edit editState

	octave   int // live input octave 1-4
	waveform int // live input waveform 0-3
	drumVol  int // 0-7
	synthVol int // 0-7

	presets map[string]preset

	out SoundDevice
}

// New creates an engine with default patterns. out may be nil for
// headless use (exports, tests of pure state).
func New(out SoundDevice) *Engine {
	return &Engine{
		store:    pattern.NewStore(),
		bpm:      120,
		octave:   2,
		drumVol:  MaxVolume,
		synthVol: MaxVolume,
		arp:      NewArpeggiator(),
		presets:  make(map[string]preset),
		out:      out,
	}
}

// TicksPerStep converts a BPM value to the step duration in ticks.
// BPM quantizes to tick granularity: 60 s * 60 ticks / bpm, floored.
func TicksPerStep(bpm int) int {
	return 3600 / bpm
}

// Tick advances the engine by one frame: step clock first, then the
// loop player. Never blocks.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ticks++
	e.clockTick()
	e.loopTick()
}

// clockTick advances the shared step counter and fires step events.
// All four tracks advance on the same boundary; shorter tracks wrap
// independently.
func (e *Engine) clockTick() {
	if !e.running {
		return
	}
	e.frame++
	if e.frame < TicksPerStep(e.bpm) {
		return
	}
	e.frame = 0
	for t := 0; t < pattern.NumTracks; t++ {
		e.fireStep(t, e.steps[t])
		e.steps[t] = (e.steps[t] + 1) % e.store.Length(t)
	}
}

// ToggleSequencer flips the transport. Turning it on resets only the
// frame counter; tracks resume from wherever they left off.
func (e *Engine) ToggleSequencer() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = !e.running
	e.frame = 0
	return e.running
}

// SetBPM sets the tempo, clamped to [MinBPM, MaxBPM].
func (e *Engine) SetBPM(bpm int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bpm = clamp(bpm, MinBPM, MaxBPM)
}

// BPMUp nudges the tempo up by BPMStep.
func (e *Engine) BPMUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bpm = clamp(e.bpm+BPMStep, MinBPM, MaxBPM)
}

// BPMDown nudges the tempo down by BPMStep.
func (e *Engine) BPMDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bpm = clamp(e.bpm-BPMStep, MinBPM, MaxBPM)
}

// BPM returns the current tempo.
func (e *Engine) BPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bpm
}

// OctaveUp raises the live input octave, capped at 4.
func (e *Engine) OctaveUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.octave < 4 {
		e.octave++
	}
}

// OctaveDown lowers the live input octave, floored at 1.
func (e *Engine) OctaveDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.octave > 1 {
		e.octave--
	}
}

// NextWaveform cycles the live input waveform through 0-3.
func (e *Engine) NextWaveform() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waveform = (e.waveform + 1) % 4
}

// DrumVolumeUp raises the drum master volume (0-7).
func (e *Engine) DrumVolumeUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drumVol = clamp(e.drumVol+1, 0, MaxVolume)
}

// DrumVolumeDown lowers the drum master volume.
func (e *Engine) DrumVolumeDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drumVol = clamp(e.drumVol-1, 0, MaxVolume)
}

// SynthVolumeUp raises the synth master volume (0-7).
func (e *Engine) SynthVolumeUp() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.synthVol = clamp(e.synthVol+1, 0, MaxVolume)
}

// SynthVolumeDown lowers the synth master volume.
func (e *Engine) SynthVolumeDown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.synthVol = clamp(e.synthVol-1, 0, MaxVolume)
}

// ToggleArpeggiator flips the arpeggiator and reports the new state.
func (e *Engine) ToggleArpeggiator() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.arp.Enabled = !e.arp.Enabled
	return e.arp.Enabled
}

// DrumCell returns one drum cell of the live store.
func (e *Engine) DrumCell(track, index int) pattern.DrumStep {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.DrumAt(track, index)
}

// SetDrumCell replaces one drum cell of the live store.
func (e *Engine) SetDrumCell(track, index int, c pattern.DrumStep) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.SetDrum(track, index, c)
}

// SynthCell returns one synth cell of the live store.
func (e *Engine) SynthCell(track, index int) pattern.SynthStep {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.SynthAt(track, index)
}

// SetSynthCell replaces one synth cell of the live store.
func (e *Engine) SetSynthCell(track, index int, c pattern.SynthStep) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store.SetSynth(track, index, c)
}

// SnapshotStore returns a deep copy of the pattern store, consistent as
// of one instant. Exporters encode from the copy without holding the
// engine lock.
func (e *Engine) SnapshotStore() *pattern.Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Clone()
}

// Status is the read-only transport/edit view for a renderer.
type Status struct {
	BPM         int
	Running     bool
	Octave      int
	Waveform    int
	DrumVolume  int
	SynthVolume int
	Recording   bool
	LoopPlaying bool
	LoopLen     int
	ArpOn       bool
	EditMode    bool
	EditCursor  int
	EditTarget  int
}

// Status returns a consistent copy of the transport and edit state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		BPM:         e.bpm,
		Running:     e.running,
		Octave:      e.octave,
		Waveform:    e.waveform,
		DrumVolume:  e.drumVol,
		SynthVolume: e.synthVol,
		Recording:   e.loop.recording,
		LoopPlaying: e.loop.playing,
		LoopLen:     len(e.loop.events),
		ArpOn:       e.arp.Enabled,
		EditMode:    e.edit.enabled,
		EditCursor:  e.edit.cursor,
		EditTarget:  e.edit.target,
	}
}

// TrackView is the read-only per-track view for a renderer. Exactly one
// of Drums/Synths is populated, matching Kind.
type TrackView struct {
	Kind   pattern.Kind
	Length int
	Step   int
	Drums  []pattern.DrumStep
	Synths []pattern.SynthStep
}

// TrackView returns a copy of one track's loop cells and playhead.
func (e *Engine) TrackView(track int) TrackView {
	e.mu.Lock()
	defer e.mu.Unlock()
	v := TrackView{
		Kind:   e.store.TrackKind(track),
		Length: e.store.Length(track),
		Step:   e.steps[track],
	}
	if v.Kind == pattern.Drum {
		v.Drums = make([]pattern.DrumStep, v.Length)
		copy(v.Drums, e.store.Drums[track].Steps[:v.Length])
	} else {
		v.Synths = make([]pattern.SynthStep, v.Length)
		copy(v.Synths, e.store.Synths[track-pattern.NumDrumTracks].Steps[:v.Length])
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
