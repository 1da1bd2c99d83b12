package tui

import (
	"reflect"
	"testing"
	"time"

	"github.com/chase3718/fretkeys/fretboard"
)

func TestReleaseWatch(t *testing.T) {
	w := newReleaseWatch(100 * time.Millisecond)
	t0 := time.Unix(0, 0)

	if !w.seen("q", t0) {
		t.Error("first press not reported as new")
	}
	if w.seen("q", t0.Add(50*time.Millisecond)) {
		t.Error("repeat reported as new")
	}
	w.seen("a", t0.Add(60*time.Millisecond))

	if got := w.expired(t0.Add(140 * time.Millisecond)); len(got) != 0 {
		t.Errorf("expired = %v, want none while repeating", got)
	}
	got := w.expired(t0.Add(200 * time.Millisecond))
	want := []fretboard.KeyID{"a", "q"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expired = %v, want %v", got, want)
	}
	if !w.seen("q", t0.Add(210*time.Millisecond)) {
		t.Error("press after release not reported as new")
	}

	w.reset()
	if !w.seen("q", t0.Add(220*time.Millisecond)) {
		t.Error("reset kept the key held")
	}
}
