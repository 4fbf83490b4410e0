package pattern

import "testing"

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore()

	for track := 0; track < NumTracks; track++ {
		if got := s.Length(track); got != DefaultLength {
			t.Errorf("track %d length = %d, want %d", track, got, DefaultLength)
		}
	}

	c := s.DrumAt(0, 0)
	if c.Active || c.Velocity != 100 || c.Duration != 0.25 {
		t.Errorf("default drum cell = %+v", c)
	}
	sc := s.SynthAt(2, 0)
	if sc.Active || sc.Octave != 1 || sc.Velocity != 100 || sc.Duration != 0.25 {
		t.Errorf("default synth cell = %+v", sc)
	}
}

func TestTrackKind(t *testing.T) {
	s := NewStore()
	tests := []struct {
		track int
		want  Kind
	}{
		{0, Drum}, {1, Drum}, {2, Synth}, {3, Synth},
	}
	for _, tt := range tests {
		if got := s.TrackKind(tt.track); got != tt.want {
			t.Errorf("TrackKind(%d) = %v, want %v", tt.track, got, tt.want)
		}
	}
}

func TestGrowShrinkBounds(t *testing.T) {
	s := NewStore()

	for i := 0; i < MaxSteps+4; i++ {
		s.Grow(0)
	}
	if got := s.Length(0); got != MaxSteps {
		t.Errorf("length after growing past capacity = %d, want %d", got, MaxSteps)
	}

	for i := 0; i < MaxSteps+4; i++ {
		s.Shrink(0)
	}
	if got := s.Length(0); got != 1 {
		t.Errorf("length after shrinking past 1 = %d, want 1", got)
	}

	// Synth tracks clamp the same way.
	for i := 0; i < MaxSteps+4; i++ {
		s.Grow(3)
	}
	if got := s.Length(3); got != MaxSteps {
		t.Errorf("synth length after growing past capacity = %d, want %d", got, MaxSteps)
	}
}

func TestGrowAppendsDefaultCell(t *testing.T) {
	s := NewStore()

	c := s.DrumAt(0, 7)
	c.Active = true
	c.Sound = 3
	s.SetDrum(0, 7, c)

	// Shrink away the edited trailing cell, then grow back: the slot
	// must come back as a fresh default, not the old contents.
	s.Shrink(0)
	s.Grow(0)

	got := s.DrumAt(0, 7)
	if got != DefaultDrumStep() {
		t.Errorf("regrown cell = %+v, want default", got)
	}
}

func TestToggleActive(t *testing.T) {
	s := NewStore()
	s.ToggleActive(1, 3)
	if !s.DrumAt(1, 3).Active {
		t.Error("cell not active after toggle")
	}
	s.ToggleActive(1, 3)
	if s.DrumAt(1, 3).Active {
		t.Error("cell still active after second toggle")
	}

	s.ToggleActive(2, 0)
	if !s.SynthAt(2, 0).Active {
		t.Error("synth cell not active after toggle")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStore()
	c := s.DrumAt(0, 0)
	c.Active = true
	s.SetDrum(0, 0, c)

	snap := s.Clone()

	c.Sound = 2
	s.SetDrum(0, 0, c)
	s.Grow(0)

	if snap.DrumAt(0, 0).Sound != 0 {
		t.Error("clone mutated through the live store")
	}
	if snap.Length(0) != DefaultLength {
		t.Errorf("clone length = %d, want %d", snap.Length(0), DefaultLength)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *Store)
	}{
		{"track too high", func(s *Store) { s.Length(4) }},
		{"track negative", func(s *Store) { s.Length(-1) }},
		{"index past length", func(s *Store) { s.DrumAt(0, DefaultLength) }},
		{"toggle past length", func(s *Store) { s.ToggleActive(0, DefaultLength) }},
		{"drum accessor on synth track", func(s *Store) { s.DrumAt(2, 0) }},
		{"synth accessor on drum track", func(s *Store) { s.SynthAt(0, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn(NewStore())
		})
	}
}

func TestNames(t *testing.T) {
	if got := DrumName(0); got != "K" {
		t.Errorf("DrumName(0) = %q, want K", got)
	}
	if got := NoteName(7); got != "C+" {
		t.Errorf("NoteName(7) = %q, want C+", got)
	}
	if got := NoteName(9); got != "D" {
		t.Errorf("NoteName(9) = %q, want D", got)
	}
	if got := WaveformName(1); got != "S" {
		t.Errorf("WaveformName(1) = %q, want S", got)
	}
}
