package fretboard

import (
	"fmt"
	"strings"
	"testing"
)

type pitchRecorder struct {
	events []string
}

func (p *pitchRecorder) NoteOn(pitch int)  { p.events = append(p.events, fmt.Sprintf("on %d", pitch)) }
func (p *pitchRecorder) NoteOff(pitch int) { p.events = append(p.events, fmt.Sprintf("off %d", pitch)) }

func TestTrack(t *testing.T) {
	tests := []struct {
		name string
		run  func(tr *Track)
		want string
	}{
		{
			name: "play and stop",
			run: func(tr *Track) {
				tr.PlayNote(1, 2, 52)
				tr.StopNote(1, 2)
			},
			want: "on 52; off 52",
		},
		{
			name: "stop unknown position",
			run: func(tr *Track) {
				tr.StopNote(0, 3)
			},
			want: "",
		},
		{
			name: "shared pitch released by last string",
			run: func(tr *Track) {
				tr.PlayNote(0, 0, 55)
				tr.PlayNote(1, 5, 55)
				tr.StopNote(0, 0)
				tr.StopNote(1, 5)
			},
			want: "on 55; on 55; off 55",
		},
		{
			name: "replaying a position releases the old pitch",
			run: func(tr *Track) {
				tr.PlayNote(2, 0, 45)
				tr.PlayNote(2, 0, 57)
				tr.StopNote(2, 0)
			},
			want: "on 45; off 45; on 57; off 57",
		},
		{
			name: "stop all in pitch order",
			run: func(tr *Track) {
				tr.PlayNote(0, 0, 55)
				tr.PlayNote(3, 0, 40)
				tr.PlayNote(2, 0, 45)
				tr.StopAll()
				tr.StopNote(0, 0)
			},
			want: "on 55; on 40; on 45; off 40; off 45; off 55",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &pitchRecorder{}
			tr := NewTrack(rec)
			tt.run(tr)
			if got := strings.Join(rec.events, "; "); got != tt.want {
				t.Errorf("events = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSinksFanOut(t *testing.T) {
	a, b := &recordingSink{}, &recordingSink{}
	s := Sinks{a, b}
	s.PlayNote(0, 1, 56)
	s.StopNote(0, 1)
	s.StopAll()
	for i, r := range []*recordingSink{a, b} {
		if got := strings.Join(r.events, "; "); got != "play 0 1 56; stop 0 1; stopall" {
			t.Errorf("sink %d events = %q", i, got)
		}
	}
}

func TestBoardThroughTrack(t *testing.T) {
	rec := &pitchRecorder{}
	b, err := NewBoard(DefaultLayout(), StandardTuning(), NewTrack(rec), Options{Sustain: true})
	if err != nil {
		t.Fatal(err)
	}
	b.KeyDown("e")
	b.KeyDown("y")
	b.KeyUp("y")
	b.KeyUp("e")
	b.KeyDown("a")
	want := "on 52; off 52; on 55; off 55; on 52; off 52; on 45"
	if got := strings.Join(rec.events, "; "); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}
