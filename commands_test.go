package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChordCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"chord", "C", "E", "G"}, "C\nroot:  C\nnotes: C4 E4 G4\n"},
		{[]string{"chord", "57", "60", "64", "67"}, "Am7\n"},
		{[]string{"chord", "C3", "G3"}, "C5\n"},
		{[]string{"chord", "C", "C#"}, "no chord (C4 C#4)\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("output = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestChordCommandJSON(t *testing.T) {
	got, err := execute(t, "chord", "--json", "G2", "B2", "D3")
	if err != nil {
		t.Fatal(err)
	}
	var a chord.Analysis
	if err := json.Unmarshal([]byte(got), &a); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, got)
	}
	if a.Chord == nil || a.Chord.Name != "G" || a.Count != 3 {
		t.Errorf("analysis = %+v", a)
	}
}

func TestChordCommandErrors(t *testing.T) {
	if _, err := execute(t, "chord"); err == nil {
		t.Error("chord with no notes succeeded")
	}
	if _, err := execute(t, "chord", "C", "X9"); err == nil {
		t.Error("chord with a bad note succeeded")
	}
}

func TestTuningsCommand(t *testing.T) {
	got, err := execute(t, "tunings")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Standard", "G3 D3 A2 E2", "Drop D", "G3 D3 A2 D2", "Fifths"} {
		if !strings.Contains(got, want) {
			t.Errorf("tunings output missing %q:\n%s", want, got)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	got, err := execute(t, "--config", path, "layout")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("layout has %d lines, want 5:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[1], "G   1  2  3") {
		t.Errorf("G row = %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "E   z  x  c") {
		t.Errorf("E row = %q", lines[4])
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frets != 10 || len(cfg.Strings) != 4 {
		t.Errorf("written config = %+v", cfg)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("init over an existing config succeeded without --force")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--midi", "--no-synth", "--octave", "-1", "--sustain=false", "--baud", "115200"}); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	pf := playFlags{midi: true, noSynth: true, octave: -1, sustain: false, baud: 115200}
	if err := applyFlags(cmd, cfg, pf); err != nil {
		t.Fatal(err)
	}
	if !cfg.MIDI.Enabled || cfg.Synth.Enabled || cfg.Octave != -1 || cfg.Sustain || cfg.Rig.Baud != 115200 {
		t.Errorf("config after flags = %+v", cfg)
	}

	pf.octave = 9
	if err := applyFlags(cmd, cfg, pf); err == nil {
		t.Error("octave 9 accepted")
	}
}

func TestAppRecordsSession(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Synth.Enabled = false
	cfg.RecordPath = filepath.Join(dir, "session.mid")

	a, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	a.board.KeyDown("z")
	a.board.KeyDown("f")
	a.board.Silence()
	a.close()

	info, err := os.Stat(cfg.RecordPath)
	if err != nil {
		t.Fatalf("recording not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("recording is empty")
	}
}

func TestAppWithoutOutputsLogsNotes(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Synth.Enabled = false

	var buf bytes.Buffer
	a, err := newApp(cfg, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatal(err)
	}
	defer a.close()
	a.board.KeyDown("a")
	if !strings.Contains(buf.String(), "note: play") || !strings.Contains(buf.String(), "note=A2") {
		t.Errorf("log = %q", buf.String())
	}
}
