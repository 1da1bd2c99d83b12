package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/fretboard"
)

type countingSink struct{ plays, stops, stopAlls int }

func (c *countingSink) PlayNote(int, int, int) { c.plays++ }
func (c *countingSink) StopNote(int, int)      { c.stops++ }
func (c *countingSink) StopAll()               { c.stopAlls++ }

type fakeVoicer struct{ cur string }

func (v *fakeVoicer) Instruments() []string { return []string{"A", "B", "C"} }
func (v *fakeVoicer) Instrument() string    { return v.cur }
func (v *fakeVoicer) SetInstrument(name string) bool {
	v.cur = name
	return true
}

func newTestModel(t *testing.T) (Model, *countingSink, *fakeVoicer) {
	t.Helper()
	sink := &countingSink{}
	b, err := fretboard.NewBoard(fretboard.DefaultLayout(), fretboard.StandardTuning(), sink, fretboard.Options{Sustain: true})
	if err != nil {
		t.Fatal(err)
	}
	v := &fakeVoicer{cur: "A"}
	return New(Options{Board: b, Voicer: v}), sink, v
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func TestFretKeysPlay(t *testing.T) {
	m, sink, _ := newTestModel(t)
	m, _ = send(m, runes("z"), runes("f"), runes("y"))

	if got := m.analysis.Chord; got == nil || got.Name != "C" {
		t.Fatalf("chord = %+v, want C", got)
	}
	if sink.plays != 3 {
		t.Errorf("plays = %d, want 3", sink.plays)
	}
	if !strings.Contains(m.View(), "root: C") {
		t.Error("view does not show the chord root")
	}
}

func TestRepeatsDoNotRetrigger(t *testing.T) {
	m, sink, _ := newTestModel(t)
	send(m, runes("e"), runes("e"), runes("e"))
	if sink.plays != 1 {
		t.Errorf("plays = %d after auto-repeat, want 1", sink.plays)
	}
}

func TestCapsLockFolds(t *testing.T) {
	m, sink, _ := newTestModel(t)
	send(m, runes("Q"))
	if sink.plays != 1 {
		t.Errorf("plays = %d for Q, want 1", sink.plays)
	}
}

func TestReleaseWatchdog(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = send(m, runes("e"))
	if len(m.snap.Pressed) != 1 {
		t.Fatalf("pressed = %v, want one key", m.snap.Pressed)
	}

	m, cmd := send(m, frameMsg(time.Now()))
	if len(m.snap.Pressed) != 1 {
		t.Error("key released before the release interval")
	}
	if cmd == nil {
		t.Error("frame did not schedule the next frame")
	}

	m, _ = send(m, frameMsg(time.Now().Add(time.Second)))
	if len(m.snap.Pressed) != 0 {
		t.Errorf("pressed = %v after the release interval, want none", m.snap.Pressed)
	}
	if len(m.snap.Pitches()) != 1 {
		t.Error("sustained note stopped on release")
	}
}

func TestControls(t *testing.T) {
	m, sink, v := newTestModel(t)

	m, _ = send(m, runes("e"), tea.KeyMsg{Type: tea.KeySpace})
	if sink.plays != 2 {
		t.Errorf("plays = %d after strum, want 2", sink.plays)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.board.Sustain() {
		t.Error("enter did not toggle sustain off")
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyDown})
	if m.board.Octave() != 1 {
		t.Errorf("octave = %d, want 1", m.board.Octave())
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if v.cur != "C" {
		t.Errorf("instrument = %q after shift+tab, want wrap to C", v.cur)
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if v.cur != "A" {
		t.Errorf("instrument = %q after tab, want A", v.cur)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyLeft}, runes("-"), runes("-"))
	if got := m.board.Tuning()[3]; got.Open != 38 || got.Name != "D" {
		t.Errorf("string 3 = %+v, want D 38", got)
	}
	if m.snap.Tuning != "Drop D" {
		t.Errorf("tuning = %q, want Drop D", m.snap.Tuning)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.snap.Tuning != "Half Step Down" {
		t.Errorf("tuning = %q after ctrl+t, want Half Step Down", m.snap.Tuning)
	}

	stops := sink.stopAlls
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if sink.stopAlls != stops+1 {
		t.Error("backspace did not silence")
	}

	m, _ = send(m, runes("?"))
	if !strings.Contains(m.View(), "key layout") {
		t.Error("? did not show the layout")
	}
}

func TestQuit(t *testing.T) {
	m, sink, _ := newTestModel(t)
	m, _ = send(m, runes("e"))
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc did not quit")
	}
	if len(m.board.Pressed()) != 0 || sink.stopAlls == 0 {
		t.Error("quit left keys held or notes sounding")
	}
}

func TestPublish(t *testing.T) {
	b, err := fretboard.NewBoard(fretboard.DefaultLayout(), fretboard.StandardTuning(), nil, fretboard.Options{Sustain: true})
	if err != nil {
		t.Fatal(err)
	}
	var last chord.Analysis
	calls := 0
	m := New(Options{Board: b, Publish: func(_ fretboard.Snapshot, a chord.Analysis) {
		last = a
		calls++
	}})
	send(m, runes("a"), runes("z"))
	if calls != 3 {
		t.Errorf("publish calls = %d, want 3", calls)
	}
	if last.Count != 2 || last.Chord == nil || last.Chord.Name != "A5" {
		t.Errorf("last analysis = %+v, want A5 power chord", last)
	}
}

func TestChordPanel(t *testing.T) {
	e := chord.New(nil)
	tests := []struct {
		pitches []int
		want    string
	}{
		{nil, "(press keys to play)"},
		{[]int{60}, "single note"},
		{[]int{60, 61}, "2 notes (no chord)"},
		{[]int{60, 64, 67}, "root: C"},
	}
	for _, tt := range tests {
		got := strings.Join(chordPanel(e.Analyze(tt.pitches)), "\n")
		if !strings.Contains(got, tt.want) {
			t.Errorf("chordPanel(%v) = %q, want %q", tt.pitches, got, tt.want)
		}
	}
}
