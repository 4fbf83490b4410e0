package engine

import "github.com/tcsenpai/neoretrosynth/pkg/pattern"

// PercussionChannel is the device channel all drum triggers land on.
// Melodic triggers use channel 0 or 1, one per synth track.
const PercussionChannel = 1

// MaxPitch is the highest chromatic pitch index, the top of the
// supported 5-octave range (pitch 0 = C1, 45 = A4).
const MaxPitch = 59

// Trigger is a resolved, ready-to-play event handed to a SoundDevice.
type Trigger struct {
	Kind     pattern.Kind
	Sound    int     // drum sound 0-3
	Pitch    int     // chromatic pitch index 0-MaxPitch (synth only)
	Waveform int     // 0-3 (synth only)
	Volume   int     // 0-7 amplitude bucket, master volume applied
	Velocity int     // raw 0-127
	Duration float64 // seconds
}

// SoundDevice receives triggers. Implementations must not block; the
// tick loop calls Trigger synchronously.
type SoundDevice interface {
	Trigger(channel int, t Trigger)
}

// Fanout dispatches every trigger to each device in order.
type Fanout []SoundDevice

// Trigger implements SoundDevice.
func (f Fanout) Trigger(channel int, t Trigger) {
	for _, d := range f {
		d.Trigger(channel, t)
	}
}

// Semitone offsets of the 7-note diatonic scale (C major).
var diatonic = [7]int{0, 2, 4, 5, 7, 9, 11}

// ResolvePitch maps a scale degree and octave to a chromatic pitch
// index. Degree 7 is the tonic of the next octave up; degrees past that
// keep folding upward. The result is clamped to MaxPitch.
func ResolvePitch(note, octave int) int {
	if note < 0 {
		note = 0
	}
	octave += note / 7
	p := diatonic[note%7] + (octave-1)*12
	if p > MaxPitch {
		p = MaxPitch
	}
	if p < 0 {
		p = 0
	}
	return p
}

// VolumeBucket maps a 0-127 velocity onto the 8-level amplitude scale.
func VolumeBucket(velocity int) int {
	v := velocity / 14
	if v > MaxVolume {
		v = MaxVolume
	}
	if v < 0 {
		v = 0
	}
	return v
}

// fireStep resolves one step event into a trigger. Inactive cells are
// silent. Caller holds the lock.
func (e *Engine) fireStep(track, step int) {
	switch e.store.TrackKind(track) {
	case pattern.Drum:
		c := e.store.DrumAt(track, step)
		if !c.Active {
			return
		}
		e.dispatchDrum(c.Sound, c.Velocity, c.Duration)
	case pattern.Synth:
		c := e.store.SynthAt(track, step)
		if !c.Active {
			return
		}
		e.dispatchSynth(track-pattern.NumDrumTracks, c.Note, c.Octave, c.Waveform, c.Velocity, c.Duration)
	}
}

// dispatchDrum emits a percussion trigger and records it when a loop
// recording session is active. Caller holds the lock.
func (e *Engine) dispatchDrum(sound, velocity int, duration float64) {
	vol := VolumeBucket(velocity)
	if vol > e.drumVol {
		vol = e.drumVol
	}
	e.emit(PercussionChannel, Trigger{
		Kind:     pattern.Drum,
		Sound:    sound,
		Volume:   vol,
		Velocity: velocity,
		Duration: duration,
	})
	if e.loop.recording {
		e.loop.events = append(e.loop.events, LoopEvent{
			Channel: PercussionChannel,
			Kind:    pattern.Drum,
			Sound:   sound,
		})
	}
}

// dispatchSynth resolves pitch and amplitude, emits a melodic trigger
// and records it when recording. Caller holds the lock.
func (e *Engine) dispatchSynth(channel, note, octave, waveform, velocity int, duration float64) {
	vol := VolumeBucket(velocity)
	if vol > e.synthVol {
		vol = e.synthVol
	}
	e.emit(channel, Trigger{
		Kind:     pattern.Synth,
		Pitch:    ResolvePitch(note, octave),
		Waveform: clampWaveform(waveform),
		Volume:   vol,
		Velocity: velocity,
		Duration: duration,
	})
	if e.loop.recording {
		e.loop.events = append(e.loop.events, LoopEvent{
			Channel:  0,
			Kind:     pattern.Synth,
			Note:     note,
			Octave:   octave,
			Waveform: waveform,
		})
	}
}

// PlayNote plays a live note with the current octave and waveform,
// expanding through the arpeggiator first. Order of the expanded notes
// is preserved in both dispatch and recording.
func (e *Engine) PlayNote(note int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.arp.Expand(note) {
		e.dispatchSynth(0, n, e.octave, e.waveform, 100, 0.25)
	}
}

// PlayDrum plays a live drum hit for sound 0-3.
func (e *Engine) PlayDrum(sound int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatchDrum(sound, 100, 0.25)
}

func (e *Engine) emit(channel int, t Trigger) {
	if e.out == nil {
		return
	}
	e.out.Trigger(channel, t)
}

// Waveform selection clamps out-of-range tags to the nearest valid one.
func clampWaveform(w int) int {
	return clamp(w, 0, 3)
}
