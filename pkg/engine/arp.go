package engine

// Arpeggiator expands a single note into a fixed ascending figure.
type Arpeggiator struct {
	Enabled bool
	Offsets [4]int
}

// NewArpeggiator returns a disabled arpeggiator with the default
// root/third/fifth/octave figure.
func NewArpeggiator() Arpeggiator {
	return Arpeggiator{Offsets: [4]int{0, 4, 7, 12}}
}

// Expand returns the ordered note sequence for a base note: the four
// offset notes when enabled, just the base note otherwise.
func (a *Arpeggiator) Expand(note int) []int {
	if !a.Enabled {
		return []int{note}
	}
	out := make([]int, len(a.Offsets))
	for i, off := range a.Offsets {
		out[i] = note + off
	}
	return out
}
