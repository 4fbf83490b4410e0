package engine

import (
	"testing"

	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

func TestLoopRecordAndReplay(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)

	e.ToggleRecording()
	e.PlayDrum(0)
	e.PlayDrum(3)
	stillRecording := e.ToggleRecording()
	if stillRecording {
		t.Fatal("recording still on after toggle")
	}

	st := e.Status()
	if st.LoopLen != 2 {
		t.Fatalf("loop length = %d, want 2", st.LoopLen)
	}
	if !st.LoopPlaying {
		t.Fatal("stopping a recording with content must auto-start playback")
	}

	dev.flush()

	// One replayed entry per 6-tick interval, cycling through both
	// entries indefinitely.
	wantSounds := []int{0, 3, 0, 3, 0, 3}
	tick(e, 6*len(wantSounds))
	if len(dev.fired) != len(wantSounds) {
		t.Fatalf("replayed %d triggers over %d ticks, want %d", len(dev.fired), 6*len(wantSounds), len(wantSounds))
	}
	for i, want := range wantSounds {
		got := dev.fired[i]
		if got.t.Kind != pattern.Drum || got.t.Sound != want {
			t.Errorf("replay %d = %+v, want drum sound %d", i, got.t, want)
		}
		if got.channel != PercussionChannel {
			t.Errorf("replay %d channel = %d, want %d", i, got.channel, PercussionChannel)
		}
	}
}

func TestLoopReplayResolvesSynthEvents(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)

	e.ToggleRecording()
	e.PlayNote(7) // C+, resolved relative to the live octave (2)
	e.ToggleRecording()
	dev.flush()

	tick(e, 6)
	if len(dev.fired) != 1 {
		t.Fatalf("replayed %d triggers, want 1", len(dev.fired))
	}
	got := dev.fired[0].t
	if got.Kind != pattern.Synth {
		t.Fatalf("kind = %v, want synth", got.Kind)
	}
	if want := ResolvePitch(7, 2); got.Pitch != want {
		t.Errorf("pitch = %d, want %d", got.Pitch, want)
	}
}

func TestLoopPlaybackIndependentOfTransport(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)

	e.ToggleRecording()
	e.PlayDrum(1)
	e.ToggleRecording()
	dev.flush()

	// Sequencer stays stopped; the loop still replays on its fixed
	// interval, and BPM has no effect on it.
	e.SetBPM(MaxBPM)
	tick(e, 12)
	if len(dev.fired) != 2 {
		t.Errorf("replayed %d triggers over 12 ticks, want 2", len(dev.fired))
	}
}

func TestClearLoopStopsPlayback(t *testing.T) {
	dev := &fakeDevice{}
	e := New(dev)

	e.ToggleRecording()
	e.PlayDrum(0)
	e.ToggleRecording()

	e.ClearLoop()
	st := e.Status()
	if st.LoopLen != 0 || st.LoopPlaying {
		t.Errorf("after clear: len=%d playing=%v, want 0/false", st.LoopLen, st.LoopPlaying)
	}

	dev.flush()
	tick(e, 60)
	if len(dev.fired) != 0 {
		t.Errorf("replayed %d triggers after clear", len(dev.fired))
	}
}

func TestRecordingStartClearsNothing(t *testing.T) {
	e := New(nil)

	e.ToggleRecording()
	e.PlayDrum(0)
	e.ToggleRecording()

	e.ToggleRecording() // start a new session
	if got := e.Status().LoopLen; got != 1 {
		t.Errorf("loop length = %d after restart, want 1 (start clears nothing)", got)
	}
}

func TestStopEmptyRecordingDoesNotPlay(t *testing.T) {
	e := New(nil)
	e.ToggleRecording()
	e.ToggleRecording()
	if e.Status().LoopPlaying {
		t.Error("empty recording session must not start playback")
	}
}

func TestSequencerStepsRecordIntoLoop(t *testing.T) {
	e := New(nil)
	e.SetBPM(120)

	c := pattern.DefaultDrumStep()
	c.Active = true
	c.Sound = 1
	e.SetDrumCell(0, 0, c)

	e.ToggleRecording()
	e.ToggleSequencer()
	tick(e, TicksPerStep(120))

	if got := e.Status().LoopLen; got != 1 {
		t.Errorf("loop length = %d after one sequenced step, want 1", got)
	}
}
