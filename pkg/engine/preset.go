package engine

import (
	"errors"
	"fmt"

	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// ErrPresetNotFound is returned by LoadPreset for unknown names.
var ErrPresetNotFound = errors.New("preset not found")

// preset is a deep snapshot of the pattern grids and the live waveform.
// Presets live only for the lifetime of the process.
type preset struct {
	waveform int
	store    *pattern.Store
}

// SavePreset stores a named snapshot, overwriting any previous one with
// the same name. Later edits to the live patterns do not touch it.
func (e *Engine) SavePreset(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.presets[name] = preset{
		waveform: e.waveform,
		store:    e.store.Clone(),
	}
}

// LoadPreset restores a named snapshot. State is unchanged on a miss.
func (e *Engine) LoadPreset(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.presets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	e.waveform = p.waveform
	e.store = p.store.Clone()
	for t := range e.steps {
		if e.steps[t] >= e.store.Length(t) {
			e.steps[t] = 0
		}
	}
	e.clampCursor()
	return nil
}

// PresetNames lists saved presets (unordered).
func (e *Engine) PresetNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.presets))
	for name := range e.presets {
		names = append(names, name)
	}
	return names
}
