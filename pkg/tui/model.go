// Package tui implements the terminal user interface. It owns the
// 60 fps frame clock: every frame message advances the engine by one
// tick, so the core never needs a timer of its own.
package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tcsenpai/neoretrosynth/pkg/engine"
	"github.com/tcsenpai/neoretrosynth/pkg/export"
	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
)

// Default export targets written from the TUI.
const (
	MIDIFile = "sequence.mid"
	WAVFile  = "sequence.wav"
)

// Model is the main TUI model.
type Model struct {
	Eng *engine.Engine

	Width    int
	Height   int
	ShowHelp bool

	StatusMsg string
}

// NewModel creates a TUI model around an engine.
func NewModel(eng *engine.Engine) Model {
	return Model{
		Eng:    eng,
		Width:  120,
		Height: 30,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		frameCmd(),
	)
}

// frameMsg is the 60 Hz tick that drives the engine clock.
type frameMsg struct{}

func frameCmd() tea.Cmd {
	return tea.Tick(16_666_666, func(_ time.Time) tea.Msg {
		return frameMsg{}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case frameMsg:
		m.Eng.Tick()
		return m, frameCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// noteKeys is the piano-style bottom row; indices fold onto the eight
// scale degrees.
var noteKeys = map[string]int{
	"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5,
	"g": 6, "b": 7, "h": 0, "n": 1, "j": 2, "m": 3,
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.Eng.Status()

	switch key := msg.String(); key {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.ShowHelp = !m.ShowHelp

	// Transport
	case "tab":
		if m.Eng.ToggleSequencer() {
			m.StatusMsg = "sequencer on"
		} else {
			m.StatusMsg = "sequencer off"
		}

	case ",":
		m.Eng.BPMDown()
	case ".":
		m.Eng.BPMUp()

	// Loop recorder
	case "r":
		if m.Eng.ToggleRecording() {
			m.StatusMsg = "recording"
		} else {
			m.StatusMsg = "recording stopped"
		}
	case "k":
		m.Eng.ClearLoop()
		m.StatusMsg = "loop cleared"

	case " ":
		if st.EditMode {
			m.Eng.ToggleStepAtCursor()
		} else {
			m.Eng.ToggleLoopPlayback()
		}

	// Live input state
	case "up":
		m.Eng.OctaveUp()
	case "down":
		m.Eng.OctaveDown()
	case "w":
		m.Eng.NextWaveform()
	case "6":
		m.Eng.DrumVolumeDown()
	case "7":
		m.Eng.DrumVolumeUp()
	case "8":
		m.Eng.SynthVolumeDown()
	case "9":
		m.Eng.SynthVolumeUp()

	// Edit mode
	case "e":
		m.Eng.ToggleEditMode()
	case "backspace":
		m.Eng.ExitEditMode()
	case "t":
		m.Eng.NextTarget()
	case "left":
		m.Eng.CursorLeft()
	case "right":
		m.Eng.CursorRight()
	case "+", "=":
		m.Eng.GrowPattern()
	case "-", "_":
		m.Eng.ShrinkPattern()

	// Exports and presets
	case "f1":
		m.StatusMsg = m.exportMIDI()
	case "f2":
		m.StatusMsg = m.exportWAV()
	case "f3":
		m.Eng.SavePreset("default")
		m.StatusMsg = `preset "default" saved`
	case "f4":
		if err := m.Eng.LoadPreset("default"); err != nil {
			m.StatusMsg = err.Error()
		} else {
			m.StatusMsg = `preset "default" loaded`
		}
	case "f5":
		if m.Eng.ToggleArpeggiator() {
			m.StatusMsg = "arpeggiator on"
		} else {
			m.StatusMsg = "arpeggiator off"
		}

	case "1", "2", "3", "4":
		sound := int(key[0] - '1')
		if st.EditMode && st.EditTarget < pattern.NumDrumTracks {
			m.Eng.SetDrumAtCursor(sound)
		} else {
			m.Eng.PlayDrum(sound)
		}

	default:
		if note, ok := noteKeys[key]; ok {
			if st.EditMode && st.EditTarget >= pattern.NumDrumTracks {
				m.Eng.SetNoteAtCursor(note)
			} else if !st.EditMode {
				m.Eng.PlayNote(note)
			}
		}
	}

	return m, nil
}

func (m Model) exportMIDI() string {
	data, err := export.MIDI(m.Eng.SnapshotStore(), m.Eng.BPM())
	if err != nil {
		return err.Error()
	}
	if err := os.WriteFile(MIDIFile, data, 0o644); err != nil {
		return err.Error()
	}
	return "MIDI exported as " + MIDIFile
}

func (m Model) exportWAV() string {
	data, err := export.WAV(m.Eng.SnapshotStore(), export.DefaultDuration, export.DefaultSampleRate)
	if err != nil {
		return err.Error()
	}
	if err := os.WriteFile(WAVFile, data, 0o644); err != nil {
		return err.Error()
	}
	return "WAV exported as " + WAVFile
}

// View implements tea.Model.
func (m Model) View() string {
	if m.ShowHelp {
		return m.helpView()
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	for t := 0; t < pattern.NumTracks; t++ {
		b.WriteString(m.trackView(t))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.editInfoView())
	b.WriteString("\n")
	b.WriteString(m.footerView())

	return b.String()
}

func (m Model) headerView() string {
	st := m.Eng.Status()

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("13")).
		Render("NEORETRO SYNTH")

	seq := "stopped"
	if st.Running {
		seq = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("playing")
	}

	rec := ""
	if st.Recording {
		rec = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(" REC")
	}
	loop := ""
	if st.LoopPlaying {
		loop = fmt.Sprintf(" loop:%d", st.LoopLen)
	}
	arp := ""
	if st.ArpOn {
		arp = " arp"
	}

	info := fmt.Sprintf(" │ BPM:%d %s │ Oct:%d Wave:%s │ Vol d:%d s:%d │%s%s%s",
		st.BPM, seq, st.Octave, pattern.WaveformName(st.Waveform),
		st.DrumVolume, st.SynthVolume, rec, loop, arp)

	line := title + info
	if m.StatusMsg != "" {
		line += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(m.StatusMsg)
	}
	return line
}

func (m Model) trackView(track int) string {
	st := m.Eng.Status()
	v := m.Eng.TrackView(track)

	label := fmt.Sprintf("Drum %d", track+1)
	if v.Kind == pattern.Synth {
		label = fmt.Sprintf("Synth %d", track-pattern.NumDrumTracks+1)
	}

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	if st.EditMode && st.EditTarget == track {
		labelStyle = labelStyle.Bold(true).Foreground(lipgloss.Color("11"))
	}
	line := labelStyle.Render(fmt.Sprintf("%-8s(%2d)", label, v.Length)) + " "

	for s := 0; s < v.Length; s++ {
		line += m.cellView(track, s, v, st)
	}

	// Cursor one past the end marks the grow position.
	if st.EditMode && st.EditTarget == track && st.EditCursor == v.Length {
		line += lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("+")
	}

	return line
}

func (m Model) cellView(track, s int, v engine.TrackView, st engine.Status) string {
	var txt string
	var active bool
	if v.Kind == pattern.Drum {
		c := v.Drums[s]
		active = c.Active
		txt = "··"
		if active {
			txt = pattern.DrumName(c.Sound) + " "
		}
	} else {
		c := v.Synths[s]
		active = c.Active
		txt = "··"
		if active {
			txt = fmt.Sprintf("%-2s", pattern.NoteName(c.Note))
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	if active {
		style = style.Foreground(lipgloss.Color("15"))
	}
	if st.Running && s == v.Step {
		style = style.Background(lipgloss.Color("4"))
	}
	if st.EditMode && st.EditTarget == track && st.EditCursor == s {
		style = style.Background(lipgloss.Color("6"))
	}

	return style.Render(txt) + " "
}

func (m Model) editInfoView() string {
	st := m.Eng.Status()
	if !st.EditMode {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
			Render("[e] edit mode  [t] switch track")
	}

	v := m.Eng.TrackView(st.EditTarget)
	desc := "end (+ to extend)"
	if st.EditCursor < v.Length {
		if v.Kind == pattern.Drum {
			c := v.Drums[st.EditCursor]
			state := "off"
			if c.Active {
				state = "on"
			}
			desc = fmt.Sprintf("%s %s V:%d D:%.2f", state, pattern.DrumName(c.Sound), c.Velocity, c.Duration)
		} else {
			c := v.Synths[st.EditCursor]
			state := "off"
			if c.Active {
				state = "on"
			}
			desc = fmt.Sprintf("%s %s O:%d W:%s V:%d D:%.2f",
				state, pattern.NoteName(c.Note), c.Octave, pattern.WaveformName(c.Waveform), c.Velocity, c.Duration)
		}
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("11")).
		Render(fmt.Sprintf("EDIT track %d step %d: %s", st.EditTarget+1, st.EditCursor+1, desc))
}

func (m Model) footerView() string {
	keys := " [Tab]Seq [Space]Step/Loop [R]ec [K]Clear [E]dit [T]rack [?]Help [Q]uit"
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(keys)
}

func (m Model) helpView() string {
	help := `
╔══════════════════════════════════════════════════════════════════╗
║                      NEORETRO SYNTH HELP                         ║
╠══════════════════════════════════════════════════════════════════╣
║ LIVE PLAY                                                        ║
║   Z S X D C V G B H N J M   Synth notes (C D E F G A B C+)       ║
║   1 2 3 4                   Drum sounds (kick snare hat open)    ║
║   ↑ ↓       Octave up/down        W    Cycle waveform            ║
║   F5        Toggle arpeggiator                                   ║
║                                                                  ║
║ SEQUENCER                                                        ║
║   Tab       Start/stop sequencer                                 ║
║   , .       BPM -5 / +5                                          ║
║   6 7       Drum volume -/+       8 9  Synth volume -/+          ║
║                                                                  ║
║ LOOP RECORDER                                                    ║
║   R         Toggle recording (stop auto-plays the loop)          ║
║   Space     Play/stop loop        K    Clear loop                ║
║                                                                  ║
║ PATTERN EDIT                                                     ║
║   E         Toggle edit mode      T    Switch target track       ║
║   ← →       Move cursor           Space  Toggle step             ║
║   1-4       Set drum sound        Z-M    Set synth note          ║
║   + -       Grow/shrink pattern   Bksp   Exit edit               ║
║                                                                  ║
║ FILES                                                            ║
║   F1        Export MIDI           F2   Export WAV                ║
║   F3        Save preset           F4   Load preset               ║
║                                                                  ║
║                              [?] Close help                      ║
╚══════════════════════════════════════════════════════════════════╝
`
	return lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Render(help)
}
