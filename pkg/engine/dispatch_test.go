package engine

import (
	"testing"

	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

func TestResolvePitch(t *testing.T) {
	tests := []struct {
		name   string
		note   int
		octave int
		want   int
	}{
		{"C1", 0, 1, 0},
		{"D1", 1, 1, 2},
		{"B1", 6, 1, 11},
		{"C+ is the next octave's tonic", 7, 1, 12},
		{"A4", 5, 4, 45},
		{"C+ from octave 4", 7, 4, 48},
		{"ceiling at the top of 5 octaves", 7, 5, MaxPitch},
		{"arp overflow folds upward", 9, 2, 28}, // degree 2 (E) one octave up from octave 2
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePitch(tt.note, tt.octave); got != tt.want {
				t.Errorf("ResolvePitch(%d, %d) = %d, want %d", tt.note, tt.octave, got, tt.want)
			}
		})
	}
}

func TestVolumeBucket(t *testing.T) {
	tests := []struct {
		velocity int
		want     int
	}{
		{0, 0},
		{13, 0},
		{14, 1},
		{100, 7},
		{127, 7},
	}
	for _, tt := range tests {
		if got := VolumeBucket(tt.velocity); got != tt.want {
			t.Errorf("VolumeBucket(%d) = %d, want %d", tt.velocity, got, tt.want)
		}
	}
}

func TestDrumStepDispatch(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)
	e.SetBPM(120)

	c := pattern.DefaultDrumStep()
	c.Active = true
	c.Sound = 2
	c.Velocity = 90
	e.SetDrumCell(1, 0, c)

	e.ToggleSequencer()
	tick(e, TicksPerStep(120))

	if len(dev.fired) != 1 {
		t.Fatalf("fired %d triggers, want 1", len(dev.fired))
	}
	got := dev.fired[0]
	if got.channel != PercussionChannel {
		t.Errorf("channel = %d, want %d", got.channel, PercussionChannel)
	}
	if got.t.Kind != pattern.Drum || got.t.Sound != 2 {
		t.Errorf("trigger = %+v, want drum sound 2", got.t)
	}
	if got.t.Volume != VolumeBucket(90) {
		t.Errorf("volume = %d, want %d", got.t.Volume, VolumeBucket(90))
	}
}

func TestSynthStepDispatch(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)
	e.SetBPM(120)

	c := pattern.DefaultSynthStep()
	c.Active = true
	c.Note = 4
	c.Octave = 3
	c.Waveform = 1
	c.Velocity = 110
	e.SetSynthCell(3, 0, c)

	e.ToggleSequencer()
	tick(e, TicksPerStep(120))

	if len(dev.fired) != 1 {
		t.Fatalf("fired %d triggers, want 1", len(dev.fired))
	}
	got := dev.fired[0]
	if got.channel != 1 {
		t.Errorf("channel = %d, want 1 (second synth track)", got.channel)
	}
	if got.t.Kind != pattern.Synth {
		t.Errorf("kind = %v, want synth", got.t.Kind)
	}
	if want := ResolvePitch(4, 3); got.t.Pitch != want {
		t.Errorf("pitch = %d, want %d", got.t.Pitch, want)
	}
	if got.t.Waveform != 1 {
		t.Errorf("waveform = %d, want 1", got.t.Waveform)
	}
}

func TestInactiveCellsAreSilent(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)
	e.ToggleSequencer()
	tick(e, 10*TicksPerStep(120))
	if len(dev.fired) != 0 {
		t.Errorf("fired %d triggers from an all-inactive store", len(dev.fired))
	}
}

func TestMasterVolumeCapsTrigger(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)
	for i := 0; i < MaxVolume; i++ {
		e.DrumVolumeDown()
	}

	e.PlayDrum(0)
	if len(dev.fired) != 1 {
		t.Fatalf("fired %d triggers, want 1", len(dev.fired))
	}
	if got := dev.fired[0].t.Volume; got != 0 {
		t.Errorf("volume = %d with drum master at 0, want 0", got)
	}
}

func TestPlayNoteThroughArpeggiator(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)

	e.PlayNote(2)
	if len(dev.fired) != 1 {
		t.Fatalf("fired %d triggers with arp off, want 1", len(dev.fired))
	}
	dev.flush()

	e.ToggleArpeggiator()
	e.PlayNote(2)
	if len(dev.fired) != 4 {
		t.Fatalf("fired %d triggers with arp on, want 4", len(dev.fired))
	}
	// Order must match the expansion: 2, 6, 9, 14 (at octave 2).
	wantNotes := []int{2, 6, 9, 14}
	for i, w := range wantNotes {
		if want := ResolvePitch(w, 2); dev.fired[i].t.Pitch != want {
			t.Errorf("trigger %d pitch = %d, want %d", i, dev.fired[i].t.Pitch, want)
		}
	}
}

func TestFanout(t *testing.T) {
	a := &fakeDevice{}
	b := &fakeDevice{}
	e := New(Fanout{a, b})
	e.PlayDrum(1)
	if len(a.fired) != 1 || len(b.fired) != 1 {
		t.Errorf("fanout fired %d/%d, want 1/1", len(a.fired), len(b.fired))
	}
}
