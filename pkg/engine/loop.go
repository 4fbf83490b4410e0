package engine

import "github.com/tcsenpai/neoretrosynth/pkg/pattern"

// loopInterval is the fixed replay cadence in ticks. Loop playback is
// decoupled from the BPM transport.
const loopInterval = 6

// LoopEvent is one recorded trigger. Events carry no timestamp; the
// player replays one entry per loopInterval ticks.
type LoopEvent struct {
	Channel  int
	Kind     pattern.Kind
	Sound    int // drum sound
	Note     int // synth scale degree
	Octave   int
	Waveform int
}

type loopState struct {
	events    []LoopEvent
	recording bool
	playing   bool
	pos       int
}

// ToggleRecording flips the recording flag. Stopping a session with a
// non-empty buffer auto-starts playback. Starting one clears nothing.
func (e *Engine) ToggleRecording() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop.recording = !e.loop.recording
	if !e.loop.recording && len(e.loop.events) > 0 {
		e.loop.playing = true
	}
	return e.loop.recording
}

// ToggleLoopPlayback flips loop playback, independent of the sequencer
// transport.
func (e *Engine) ToggleLoopPlayback() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop.playing = !e.loop.playing
	return e.loop.playing
}

// ClearLoop empties the buffer and stops playback.
func (e *Engine) ClearLoop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop.events = nil
	e.loop.playing = false
	e.loop.pos = 0
}

// loopTick replays one stored trigger every loopInterval ticks while
// playing. Caller holds the lock.
func (e *Engine) loopTick() {
	if !e.loop.playing || len(e.loop.events) == 0 {
		return
	}
	if e.ticks%loopInterval != 0 {
		return
	}
	if e.loop.pos >= len(e.loop.events) {
		e.loop.pos = 0
	}
	ev := e.loop.events[e.loop.pos]
	e.loop.pos = (e.loop.pos + 1) % len(e.loop.events)
	e.replay(ev)
}

// replay re-fires a stored trigger. Drum events retrigger as-is; synth
// events go back through the live pitch and amplitude resolution.
func (e *Engine) replay(ev LoopEvent) {
	switch ev.Kind {
	case pattern.Drum:
		vol := VolumeBucket(100)
		if vol > e.drumVol {
			vol = e.drumVol
		}
		e.emit(ev.Channel, Trigger{
			Kind:     pattern.Drum,
			Sound:    ev.Sound,
			Volume:   vol,
			Velocity: 100,
			Duration: 0.25,
		})
	case pattern.Synth:
		vol := VolumeBucket(100)
		if vol > e.synthVol {
			vol = e.synthVol
		}
		e.emit(ev.Channel, Trigger{
			Kind:     pattern.Synth,
			Pitch:    ResolvePitch(ev.Note, ev.Octave),
			Waveform: clampWaveform(ev.Waveform),
			Volume:   vol,
			Velocity: 100,
			Duration: 0.25,
		})
	}
}
