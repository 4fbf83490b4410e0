// Package main is the entry point for the neoretrosynth CLI
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register the system MIDI driver

	"github.com/tcsenpai/neoretrosynth/pkg/audio"
	"github.com/tcsenpai/neoretrosynth/pkg/engine"
	"github.com/tcsenpai/neoretrosynth/pkg/export"
	"github.com/tcsenpai/neoretrosynth/pkg/midiout"
	"github.com/tcsenpai/neoretrosynth/pkg/pattern"
	"github.com/tcsenpai/neoretrosynth/pkg/tui"
)

var (
	midiPort   string
	outputFile string
	duration   float64
	sampleRate int
	bpm        int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "neoretrosynth",
	Short: "A four-track drum and synth step sequencer for the terminal",
	Long: `neoretrosynth is a step sequencer with two drum tracks and two synth
tracks, a loop recorder, an arpeggiator, and offline WAV and MIDI export.

Running it without a subcommand opens the interactive sequencer.`,
	RunE: runTUI,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the demo pattern to a file",
}

var exportWAVCmd = &cobra.Command{
	Use:   "wav",
	Short: "Render the demo pattern to a PCM WAV file",
	RunE:  runExportWAV,
}

var exportMIDICmd = &cobra.Command{
	Use:   "midi",
	Short: "Encode the demo pattern as a Standard MIDI File",
	RunE:  runExportMIDI,
}

func init() {
	rootCmd.Flags().StringVar(&midiPort, "midi-port", "", "also send triggers to this MIDI out port")

	exportWAVCmd.Flags().StringVarP(&outputFile, "output", "o", "sequence.wav", "output file")
	exportWAVCmd.Flags().Float64VarP(&duration, "duration", "d", export.DefaultDuration, "render length in seconds")
	exportWAVCmd.Flags().IntVarP(&sampleRate, "rate", "r", export.DefaultSampleRate, "sample rate in Hz")

	exportMIDICmd.Flags().StringVarP(&outputFile, "output", "o", "sequence.mid", "output file")
	exportMIDICmd.Flags().IntVar(&bpm, "bpm", 120, "tempo for the tempo meta-event")

	exportCmd.AddCommand(exportWAVCmd, exportMIDICmd)
	rootCmd.AddCommand(exportCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	synth := audio.NewSynth(export.DefaultSampleRate)

	devices := engine.Fanout{synth}
	if midiPort != "" {
		out, err := midi.FindOutPort(midiPort)
		if err != nil {
			return fmt.Errorf("midi port %q: %w", midiPort, err)
		}
		send, err := midi.SendTo(out)
		if err != nil {
			return fmt.Errorf("midi port %q: %w", midiPort, err)
		}
		devices = append(devices, midiout.New(midiout.SendFunc(send)))
		defer midi.CloseDriver()
	}

	eng := engine.New(devices)
	seedDemo(eng)

	output, err := audio.NewOutput(synth, export.DefaultSampleRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "audio unavailable, running silent: %v\n", err)
	} else {
		defer output.Close()
	}

	p := tea.NewProgram(tui.NewModel(eng))
	_, err = p.Run()
	return err
}

func runExportWAV(cmd *cobra.Command, args []string) error {
	eng := engine.New(nil)
	seedDemo(eng)

	data, err := export.WAV(eng.SnapshotStore(), duration, sampleRate)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("WAV exported as %s\n", outputFile)
	return nil
}

func runExportMIDI(cmd *cobra.Command, args []string) error {
	eng := engine.New(nil)
	eng.SetBPM(bpm)
	seedDemo(eng)

	data, err := export.MIDI(eng.SnapshotStore(), eng.BPM())
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("MIDI exported as %s\n", outputFile)
	return nil
}

// seedDemo fills track 0 of each kind with a small beat and an
// arpeggio so a fresh session makes sound immediately.
func seedDemo(eng *engine.Engine) {
	drums := []struct {
		step  int
		sound int
	}{
		{0, 0}, {2, 2}, {4, 1}, {6, 2},
	}
	for _, d := range drums {
		c := pattern.DefaultDrumStep()
		c.Active = true
		c.Sound = d.sound
		eng.SetDrumCell(0, d.step, c)
	}

	notes := []struct {
		step int
		note int
	}{
		{0, 0}, {2, 2}, {4, 4}, {6, 7},
	}
	for _, n := range notes {
		c := pattern.DefaultSynthStep()
		c.Active = true
		c.Note = n.note
		c.Octave = 2
		eng.SetSynthCell(2, n.step, c)
	}
}
