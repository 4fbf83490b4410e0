// Package pattern implements the step pattern data model
package pattern

import "fmt"

// MaxSteps is the fixed capacity of every pattern grid.
const MaxSteps = 32

// Track layout: two drum tracks (0-1) followed by two synth tracks (2-3).
const (
	NumDrumTracks  = 2
	NumSynthTracks = 2
	NumTracks      = NumDrumTracks + NumSynthTracks
)

// DefaultLength is the initial loop length of every track.
const DefaultLength = 8

// Kind distinguishes the two track flavours.
type Kind int

const (
	Drum Kind = iota
	Synth
)

// DrumStep is a single cell of a drum pattern
type DrumStep struct {
	Active   bool
	Sound    int     // 0-3: kick, snare, closed hat, open hat
	Velocity int     // 0-127
	Duration float64 // seconds
}

// SynthStep is a single cell of a synth pattern
type SynthStep struct {
	Active   bool
	Note     int     // 0-7 scale degree, 7 = tonic of the next octave
	Octave   int     // 1-4
	Waveform int     // 0-3
	Velocity int     // 0-127
	Duration float64 // seconds
}

// DefaultDrumStep returns the cell a fresh or grown drum slot holds.
func DefaultDrumStep() DrumStep {
	return DrumStep{Velocity: 100, Duration: 0.25}
}

// DefaultSynthStep returns the cell a fresh or grown synth slot holds.
func DefaultSynthStep() SynthStep {
	return SynthStep{Octave: 1, Velocity: 100, Duration: 0.25}
}

// DrumPattern holds one drum track's grid. Only the first Length cells
// are part of the playable loop.
type DrumPattern struct {
	Steps  [MaxSteps]DrumStep
	Length int
}

// SynthPattern holds one synth track's grid.
type SynthPattern struct {
	Steps  [MaxSteps]SynthStep
	Length int
}

// Store owns all four pattern grids. All track arguments are global
// indices 0-3; out-of-range indices are programmer errors and panic.
type Store struct {
	Drums  [NumDrumTracks]DrumPattern
	Synths [NumSynthTracks]SynthPattern
}

// NewStore creates a store with all tracks at the default length and
// every cell inactive.
func NewStore() *Store {
	s := &Store{}
	for i := range s.Drums {
		s.Drums[i].Length = DefaultLength
		for j := range s.Drums[i].Steps {
			s.Drums[i].Steps[j] = DefaultDrumStep()
		}
	}
	for i := range s.Synths {
		s.Synths[i].Length = DefaultLength
		for j := range s.Synths[i].Steps {
			s.Synths[i].Steps[j] = DefaultSynthStep()
		}
	}
	return s
}

// Clone returns a deep, independent copy of the store. The grids are
// value arrays, so a struct copy is a full copy.
func (s *Store) Clone() *Store {
	c := *s
	return &c
}

// TrackKind reports whether a track is drum or synth.
func (s *Store) TrackKind(track int) Kind {
	s.checkTrack(track)
	if track < NumDrumTracks {
		return Drum
	}
	return Synth
}

// Length returns the loop length of a track.
func (s *Store) Length(track int) int {
	s.checkTrack(track)
	if track < NumDrumTracks {
		return s.Drums[track].Length
	}
	return s.Synths[track-NumDrumTracks].Length
}

// DrumAt returns a drum cell. The track must be a drum track and the
// index must be inside the loop.
func (s *Store) DrumAt(track, index int) DrumStep {
	s.checkCell(track, index, Drum)
	return s.Drums[track].Steps[index]
}

// SetDrum replaces a drum cell.
func (s *Store) SetDrum(track, index int, c DrumStep) {
	s.checkCell(track, index, Drum)
	s.Drums[track].Steps[index] = c
}

// SynthAt returns a synth cell. The track must be a synth track.
func (s *Store) SynthAt(track, index int) SynthStep {
	s.checkCell(track, index, Synth)
	return s.Synths[track-NumDrumTracks].Steps[index]
}

// SetSynth replaces a synth cell.
func (s *Store) SetSynth(track, index int, c SynthStep) {
	s.checkCell(track, index, Synth)
	s.Synths[track-NumDrumTracks].Steps[index] = c
}

// ToggleActive flips the active flag of a cell on any track.
func (s *Store) ToggleActive(track, index int) {
	s.checkTrack(track)
	if index < 0 || index >= s.Length(track) {
		panic(fmt.Sprintf("pattern: step %d out of range for track %d (length %d)", index, track, s.Length(track)))
	}
	if track < NumDrumTracks {
		st := &s.Drums[track].Steps[index]
		st.Active = !st.Active
		return
	}
	st := &s.Synths[track-NumDrumTracks].Steps[index]
	st.Active = !st.Active
}

// Grow appends a default inactive cell to the track's loop. No-op at
// capacity.
func (s *Store) Grow(track int) {
	s.checkTrack(track)
	if track < NumDrumTracks {
		p := &s.Drums[track]
		if p.Length >= MaxSteps {
			return
		}
		p.Steps[p.Length] = DefaultDrumStep()
		p.Length++
		return
	}
	p := &s.Synths[track-NumDrumTracks]
	if p.Length >= MaxSteps {
		return
	}
	p.Steps[p.Length] = DefaultSynthStep()
	p.Length++
}

// Shrink drops the trailing cell of the track's loop. No-op at length 1.
func (s *Store) Shrink(track int) {
	s.checkTrack(track)
	if track < NumDrumTracks {
		if s.Drums[track].Length > 1 {
			s.Drums[track].Length--
		}
		return
	}
	if s.Synths[track-NumDrumTracks].Length > 1 {
		s.Synths[track-NumDrumTracks].Length--
	}
}

func (s *Store) checkTrack(track int) {
	if track < 0 || track >= NumTracks {
		panic(fmt.Sprintf("pattern: track %d out of range", track))
	}
}

func (s *Store) checkCell(track, index int, want Kind) {
	s.checkTrack(track)
	if got := s.TrackKind(track); got != want {
		panic(fmt.Sprintf("pattern: track %d is not a %s track", track, want))
	}
	if index < 0 || index >= s.Length(track) {
		panic(fmt.Sprintf("pattern: step %d out of range for track %d (length %d)", index, track, s.Length(track)))
	}
}

// String implements fmt.Stringer for Kind.
func (k Kind) String() string {
	if k == Drum {
		return "drum"
	}
	return "synth"
}

var drumNames = []string{"K", "S", "H", "O"}
var noteNames = []string{"C", "D", "E", "F", "G", "A", "B", "C+"}
var waveNames = []string{"T", "S", "P", "N"}

// DrumName returns the display letter for a drum sound (K, S, H, O).
func DrumName(sound int) string {
	if sound < 0 || sound >= len(drumNames) {
		return "?"
	}
	return drumNames[sound]
}

// NoteName returns the display name for a scale degree (C through C+).
func NoteName(note int) string {
	if note < 0 {
		return "?"
	}
	return noteNames[note%len(noteNames)]
}

// WaveformName returns the display letter for a waveform: T (triangle),
// S (square), P (pulse), N (noise).
func WaveformName(w int) string {
	if w < 0 || w >= len(waveNames) {
		return "?"
	}
	return waveNames[w]
}
