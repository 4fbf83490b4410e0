package main

import (
	"testing"

	"github.com/tcsenpai/neoretrosynth/pkg/engine"
)

func TestCommandTree(t *testing.T) {
	if rootCmd.Flags().Lookup("midi-port") == nil {
		t.Error("root command is missing the midi-port flag")
	}

	hasExport := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "export" {
			hasExport = true
		}
	}
	if !hasExport {
		t.Fatal("root command has no export subcommand")
	}

	want := map[string]bool{"wav": false, "midi": false}
	for _, c := range exportCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("export has no %q subcommand", name)
		}
	}
}

func TestSeedDemoFillsTrackZero(t *testing.T) {
	eng := engine.New(nil)
	seedDemo(eng)

	for _, step := range []int{0, 2, 4, 6} {
		if !eng.DrumCell(0, step).Active {
			t.Errorf("drum step %d inactive after seeding", step)
		}
		if !eng.SynthCell(2, step).Active {
			t.Errorf("synth step %d inactive after seeding", step)
		}
	}
	if eng.DrumCell(1, 0).Active || eng.SynthCell(3, 0).Active {
		t.Error("seeding touched the second track of a kind")
	}
}
