// Package midiout adapts engine triggers to live MIDI messages sent
// through a pluggable sender, keeping drivers out of the core.
package midiout

import (
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/tcsenpai/neoretrosynth/pkg/engine"
	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// SendFunc delivers one MIDI message to an open output port.
type SendFunc func(midi.Message) error

// MIDI channel and note mapping.
const (
	percussionChannel = 9 // GM drums
	drumBaseNote      = 35
	// synthBaseNote places pitch index 0 (C1) at MIDI note 24.
	synthBaseNote = 24
)

// Device converts triggers into note-on messages followed by a delayed
// note-off after the trigger's duration. It implements
// engine.SoundDevice; send errors are dropped, matching the
// fire-and-forget trigger contract.
type Device struct {
	send SendFunc
}

// New creates a device around a sender, e.g. the function returned by
// midi.SendTo for an open out port.
func New(send SendFunc) *Device {
	return &Device{send: send}
}

// Trigger implements engine.SoundDevice.
func (d *Device) Trigger(channel int, t engine.Trigger) {
	var ch, note uint8
	switch t.Kind {
	case pattern.Drum:
		ch = percussionChannel
		note = uint8(drumBaseNote + t.Sound)
	case pattern.Synth:
		ch = uint8(channel)
		note = uint8(synthBaseNote + t.Pitch)
	default:
		return
	}

	v := t.Velocity
	if v > 127 {
		v = 127
	}
	if v < 0 {
		v = 0
	}
	_ = d.send(midi.NoteOn(ch, note, uint8(v)))

	dur := t.Duration
	if dur <= 0 {
		dur = 0.25
	}
	time.AfterFunc(time.Duration(dur*float64(time.Second)), func() {
		_ = d.send(midi.NoteOff(ch, note))
	})
}
