package fretboard

import (
	"log/slog"
	"sort"

	"github.com/chase3718/fretkeys/chord"
)

// Sink receives the board's note decisions. Calls are fire-and-forget;
// implementations log their own failures.
type Sink interface {
	PlayNote(string, fret, pitch int)
	StopNote(string, fret int)
	StopAll()
}

// PitchSink is a device that only knows pitches, such as a MIDI port or a
// synthesizer.
type PitchSink interface {
	NoteOn(pitch int)
	NoteOff(pitch int)
}

// Voicer is implemented by sinks with selectable instruments.
type Voicer interface {
	Instruments() []string
	Instrument() string
	SetInstrument(name string) bool
}

// Track adapts a PitchSink to Sink. It remembers which pitch each
// (string, fret) started so StopNote can release it. A pitch sounded by two
// strings at once is released when the last of them stops.
type Track struct {
	out    PitchSink
	active map[Position]int
	count  map[int]int
}

// NewTrack wraps out.
func NewTrack(out PitchSink) *Track {
	return &Track{
		out:    out,
		active: make(map[Position]int),
		count:  make(map[int]int),
	}
}

// PlayNote implements Sink.
func (t *Track) PlayNote(s, fret, pitch int) {
	pos := Position{String: s, Fret: fret}
	if _, ok := t.active[pos]; ok {
		t.release(pos)
	}
	t.active[pos] = pitch
	t.count[pitch]++
	t.out.NoteOn(pitch)
}

// StopNote implements Sink.
func (t *Track) StopNote(s, fret int) {
	t.release(Position{String: s, Fret: fret})
}

// StopAll implements Sink.
func (t *Track) StopAll() {
	pitches := make([]int, 0, len(t.count))
	for p := range t.count {
		pitches = append(pitches, p)
	}
	sort.Ints(pitches)
	for _, p := range pitches {
		t.out.NoteOff(p)
	}
	clear(t.active)
	clear(t.count)
}

// Unwrap returns the wrapped PitchSink.
func (t *Track) Unwrap() PitchSink { return t.out }

func (t *Track) release(pos Position) {
	p, ok := t.active[pos]
	if !ok {
		return
	}
	delete(t.active, pos)
	if t.count[p]--; t.count[p] > 0 {
		return
	}
	delete(t.count, p)
	t.out.NoteOff(p)
}

// Sinks fans every call out to each sink in order.
type Sinks []Sink

func (ss Sinks) PlayNote(s, fret, pitch int) {
	for _, k := range ss {
		k.PlayNote(s, fret, pitch)
	}
}

func (ss Sinks) StopNote(s, fret int) {
	for _, k := range ss {
		k.StopNote(s, fret)
	}
}

func (ss Sinks) StopAll() {
	for _, k := range ss {
		k.StopAll()
	}
}

// LogSink logs every note. It is the fallback when no audio output is
// available.
type LogSink struct {
	Logger *slog.Logger
}

func (l LogSink) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

func (l LogSink) PlayNote(s, fret, pitch int) {
	l.logger().Info("note: play",
		"string", s,
		"fret", fret,
		"pitch", pitch,
		"note", chord.NameWithOctave(pitch),
		"hz", chord.Frequency(pitch),
	)
}

func (l LogSink) StopNote(s, fret int) {
	l.logger().Info("note: stop", "string", s, "fret", fret)
}

func (l LogSink) StopAll() {
	l.logger().Info("note: stop all")
}
