package export

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// Standard MIDI File layout constants.
const (
	// Division is the SMF resolution in ticks per quarter note.
	Division = 480
	// StepTicks is the delta between adjacent pattern steps.
	StepTicks = 120
	// DrumBaseNote maps drum sound 0 onto the GM percussion range.
	DrumBaseNote = 35
	// SynthBaseNote places synth octave 1 degree 0 at middle C.
	SynthBaseNote = 60
)

// MIDI encodes the store as an SMF format 1 file with two tracks:
// drum track 0 on the percussion channel and synth track 0 on
// channel 0. Track 1 of each kind is not exported.
func MIDI(store *pattern.Store, bpm int) ([]byte, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("export: bpm must be positive, got %d", bpm)
	}

	var buf bytes.Buffer

	// Header chunk: format 1, 2 tracks, division 480.
	buf.WriteString("MThd")
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, uint16(1))
	binary.Write(&buf, binary.BigEndian, uint16(2))
	binary.Write(&buf, binary.BigEndian, uint16(Division))

	writeTrack(&buf, drumTrack(store, bpm))
	writeTrack(&buf, synthTrack(store))

	return buf.Bytes(), nil
}

// drumTrack encodes the tempo meta-event followed by note-on/off pairs
// for every active drum step on track 0.
func drumTrack(store *pattern.Store, bpm int) []byte {
	var tr bytes.Buffer

	// Tempo at time 0: FF 51 03 with 24-bit microseconds per quarter.
	usPerQuarter := 60000000 / bpm
	tr.WriteByte(0x00)
	tr.Write([]byte{0xFF, 0x51, 0x03})
	tr.Write([]byte{
		byte(usPerQuarter >> 16),
		byte(usPerQuarter >> 8),
		byte(usPerQuarter),
	})

	drums := &store.Drums[0]
	for s := 0; s < drums.Length; s++ {
		c := drums.Steps[s]
		if !c.Active {
			continue
		}
		note := byte(DrumBaseNote + c.Sound)
		tr.Write(varLen(uint32(s * StepTicks)))
		tr.Write([]byte{0x99, note, byte(c.Velocity)})
		tr.Write(varLen(uint32(c.Duration * Division)))
		tr.Write([]byte{0x89, note, 0x00})
	}

	tr.Write([]byte{0x00, 0xFF, 0x2F, 0x00})
	return tr.Bytes()
}

// synthTrack encodes note-on/off pairs for every active synth step on
// track 0.
func synthTrack(store *pattern.Store) []byte {
	var tr bytes.Buffer

	synths := &store.Synths[0]
	for s := 0; s < synths.Length; s++ {
		c := synths.Steps[s]
		if !c.Active {
			continue
		}
		note := byte(c.Note + (c.Octave-1)*12 + SynthBaseNote)
		tr.Write(varLen(uint32(s * StepTicks)))
		tr.Write([]byte{0x90, note, byte(c.Velocity)})
		tr.Write(varLen(uint32(c.Duration * Division)))
		tr.Write([]byte{0x80, note, 0x00})
	}

	tr.Write([]byte{0x00, 0xFF, 0x2F, 0x00})
	return tr.Bytes()
}

// writeTrack wraps track data in an MTrk chunk with its big-endian
// 32-bit byte length.
func writeTrack(buf *bytes.Buffer, data []byte) {
	buf.WriteString("MTrk")
	binary.Write(buf, binary.BigEndian, uint32(len(data)))
	buf.Write(data)
}

// varLen encodes a delta-time as a MIDI variable-length quantity:
// 7 bits per byte, most significant group first, continuation bit set
// on all but the final byte. Zero encodes as a single zero byte.
func varLen(v uint32) []byte {
	if v == 0 {
		return []byte{0x00}
	}
	var groups []byte
	for v > 0 {
		groups = append(groups, byte(v&0x7F))
		v >>= 7
	}
	out := make([]byte, 0, len(groups))
	for i := len(groups) - 1; i >= 0; i-- {
		b := groups[i]
		if i > 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}
