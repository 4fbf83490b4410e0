package engine

import "github.com/tcsenpai/neoretrosynth/pkg/pattern"

// editState tracks the pattern editor. The cursor may sit one position
// past the last cell (cursor == length) so the grid can be extended
// from the right edge; cell mutations require cursor < length.
type editState struct {
	enabled bool
	cursor  int
	target  int // 0-3
}

// ToggleEditMode flips edit mode. Entering resets the cursor to 0.
func (e *Engine) ToggleEditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edit.enabled = !e.edit.enabled
	if e.edit.enabled {
		e.edit.cursor = 0
	}
	return e.edit.enabled
}

// ExitEditMode leaves edit mode.
func (e *Engine) ExitEditMode() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edit.enabled = false
}

// NextTarget cycles the edited track through 0-3 and keeps the cursor
// inside the new track's window.
func (e *Engine) NextTarget() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.edit.target = (e.edit.target + 1) % pattern.NumTracks
	e.clampCursor()
}

// CursorLeft moves the edit cursor left, floored at 0.
func (e *Engine) CursorLeft() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled {
		return
	}
	if e.edit.cursor > 0 {
		e.edit.cursor--
	}
}

// CursorRight moves the edit cursor right, capped at the track length
// (one past the last cell).
func (e *Engine) CursorRight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled {
		return
	}
	if e.edit.cursor < e.store.Length(e.edit.target) {
		e.edit.cursor++
	}
}

// ToggleStepAtCursor flips the active flag under the cursor. Ignored
// when the cursor sits past the last cell.
func (e *Engine) ToggleStepAtCursor() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled || e.edit.cursor >= e.store.Length(e.edit.target) {
		return
	}
	e.store.ToggleActive(e.edit.target, e.edit.cursor)
}

// SetDrumAtCursor writes a drum sound under the cursor and activates
// the cell. Only meaningful while a drum track is targeted.
func (e *Engine) SetDrumAtCursor(sound int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled || e.edit.target >= pattern.NumDrumTracks {
		return
	}
	if e.edit.cursor >= e.store.Length(e.edit.target) {
		return
	}
	c := e.store.DrumAt(e.edit.target, e.edit.cursor)
	c.Sound = clamp(sound, 0, 3)
	c.Active = true
	e.store.SetDrum(e.edit.target, e.edit.cursor, c)
}

// SetNoteAtCursor writes a synth note under the cursor with the current
// input octave and waveform, and activates the cell. Only meaningful
// while a synth track is targeted.
func (e *Engine) SetNoteAtCursor(note int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled || e.edit.target < pattern.NumDrumTracks {
		return
	}
	if e.edit.cursor >= e.store.Length(e.edit.target) {
		return
	}
	c := e.store.SynthAt(e.edit.target, e.edit.cursor)
	c.Note = note % 8
	c.Octave = e.octave
	c.Waveform = e.waveform
	c.Active = true
	e.store.SetSynth(e.edit.target, e.edit.cursor, c)
}

// GrowPattern extends the targeted track by one default cell. Edit mode
// only; no-op at capacity.
func (e *Engine) GrowPattern() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled {
		return
	}
	e.store.Grow(e.edit.target)
}

// ShrinkPattern drops the targeted track's trailing cell. Edit mode
// only; no-op at length 1. The playhead and cursor are pulled back
// inside the shorter loop.
func (e *Engine) ShrinkPattern() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.edit.enabled {
		return
	}
	e.store.Shrink(e.edit.target)
	length := e.store.Length(e.edit.target)
	if e.steps[e.edit.target] >= length {
		e.steps[e.edit.target] = 0
	}
	e.clampCursor()
}

func (e *Engine) clampCursor() {
	if l := e.store.Length(e.edit.target); e.edit.cursor > l {
		e.edit.cursor = l
	}
}
