// Package fretboard turns key presses into one sounding note per string.
//
// Each string keeps the multiset of frets whose keys are held. The highest
// held fret is the active fret. In non-sustain mode a string always sounds
// its active fret and goes silent when nothing is held. In sustain mode
// (the default) a released note keeps ringing; pressing the first key of a
// new chord, when no key at all is held, silences everything first.
package fretboard

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrStringOutOfRange is returned when a string index does not exist.
var ErrStringOutOfRange = errors.New("fretboard: string index out of range")

// Octave offset bounds.
const (
	MinOctave = -3
	MaxOctave = 3
)

// NoFret marks a string with no held fret.
const NoFret = -1

// Options configures a Board.
type Options struct {
	Sustain bool
	Octave  int
	Logger  *slog.Logger
}

// Voice is the note a string is currently asked to sound.
type Voice struct {
	Fret  int `json:"fret"`
	Pitch int `json:"pitch"`

	seq uint64
}

// Board is the fret state machine. It is not safe for concurrent use; the
// control loop owns it and publishes Snapshots to other goroutines.
type Board struct {
	layout *Layout
	tuning Tuning
	sink   Sink
	log    *slog.Logger

	sustain bool
	octave  int

	pressed  map[KeyID]Position
	held     []map[int]int // per string: fret -> number of keys holding it
	sounding []*Voice
	seq      uint64
}

// NewBoard creates a board with empty state. The tuning must have one entry
// per layout row.
func NewBoard(layout *Layout, tuning Tuning, sink Sink, opts Options) (*Board, error) {
	if layout == nil {
		return nil, fmt.Errorf("fretboard: nil layout")
	}
	if len(tuning) != layout.Strings() {
		return nil, fmt.Errorf("fretboard: tuning has %d strings, layout has %d rows", len(tuning), layout.Strings())
	}
	if sink == nil {
		sink = Sinks(nil)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	b := &Board{
		layout:   layout,
		tuning:   tuning.Clone(),
		sink:     sink,
		log:      log,
		sustain:  opts.Sustain,
		octave:   clampOctave(opts.Octave),
		pressed:  make(map[KeyID]Position),
		held:     make([]map[int]int, len(tuning)),
		sounding: make([]*Voice, len(tuning)),
	}
	for i := range b.held {
		b.held[i] = make(map[int]int)
	}
	return b, nil
}

// KeyDown presses a key. Unmapped keys and keys already down are ignored.
func (b *Board) KeyDown(k KeyID) {
	pos, ok := b.layout.Lookup(k)
	if !ok || pos.String >= len(b.tuning) {
		return
	}
	if _, down := b.pressed[k]; down {
		return
	}

	if b.sustain && len(b.pressed) == 0 {
		b.log.Debug("fretboard: fresh chord")
		b.stopAll()
	}

	b.pressed[k] = pos
	b.held[pos.String][pos.Fret]++
	b.log.Debug("fretboard: key down", "key", string(k), "string", pos.String, "fret", pos.Fret)

	if active, _ := b.active(pos.String); active == pos.Fret {
		b.sound(pos.String, pos.Fret)
	}
}

// KeyUp releases a key. Keys that are not down are ignored.
func (b *Board) KeyUp(k KeyID) {
	pos, ok := b.pressed[k]
	if !ok {
		return
	}
	delete(b.pressed, k)
	s := pos.String
	if b.held[s][pos.Fret]--; b.held[s][pos.Fret] <= 0 {
		delete(b.held[s], pos.Fret)
	}
	b.log.Debug("fretboard: key up", "key", string(k), "string", s, "fret", pos.Fret)

	active, has := b.active(s)
	cur := b.sounding[s]

	if !b.sustain {
		switch {
		case !has:
			b.silence(s)
		case cur == nil || cur.Fret != active:
			b.sound(s, active)
		}
		return
	}

	// Sustain: only releasing the ringing fret matters. A lower held fret
	// takes over; otherwise the string keeps ringing.
	if cur == nil || cur.Fret != pos.Fret {
		return
	}
	if has && active != cur.Fret {
		b.sound(s, active)
	}
}

// Strum replays the active fret of every string that has one.
func (b *Board) Strum() {
	n := 0
	for s := range b.tuning {
		if f, ok := b.active(s); ok {
			b.sound(s, f)
			n++
		}
	}
	b.log.Debug("fretboard: strum", "strings", n)
}

// ChangeOctaveOffset shifts the octave offset by delta, clamped to
// [MinOctave, MaxOctave], and returns the new offset. Sounding notes keep
// their pitch.
func (b *Board) ChangeOctaveOffset(delta int) int {
	b.octave = clampOctave(b.octave + delta)
	b.log.Debug("fretboard: octave", "offset", b.octave)
	return b.octave
}

// Octave returns the current octave offset.
func (b *Board) Octave() int { return b.octave }

// SetTuning re-tunes one string. Sounding notes are not touched.
func (b *Board) SetTuning(s, open int, name string) error {
	if s < 0 || s >= len(b.tuning) {
		return fmt.Errorf("%w: %d of %d", ErrStringOutOfRange, s, len(b.tuning))
	}
	if name == "" {
		name = StringFor(open).Name
	}
	b.tuning[s] = String{Name: name, Open: open}
	b.log.Info("fretboard: string retuned", "string", s, "name", name, "open", open)
	return nil
}

// Retune moves one string's open pitch by delta semitones and renames it.
func (b *Board) Retune(s, delta int) error {
	if s < 0 || s >= len(b.tuning) {
		return fmt.Errorf("%w: %d of %d", ErrStringOutOfRange, s, len(b.tuning))
	}
	st := StringFor(b.tuning[s].Open + delta)
	return b.SetTuning(s, st.Open, st.Name)
}

// ApplyPreset re-tunes every string from a named preset.
func (b *Board) ApplyPreset(name string) error {
	t, ok := PresetByName(name)
	if !ok {
		return fmt.Errorf("fretboard: unknown tuning %q", name)
	}
	if len(t) != len(b.tuning) {
		return fmt.Errorf("fretboard: tuning %q has %d strings, board has %d", name, len(t), len(b.tuning))
	}
	b.tuning = t
	b.log.Info("fretboard: tuning applied", "tuning", name)
	return nil
}

// Tuning returns a copy of the current tuning.
func (b *Board) Tuning() Tuning { return b.tuning.Clone() }

// Layout returns the key layout.
func (b *Board) Layout() *Layout { return b.layout }

// SetSustain switches modes. Leaving sustain stops strings that have no
// held fret, since nothing would release them otherwise.
func (b *Board) SetSustain(on bool) {
	if b.sustain == on {
		return
	}
	b.sustain = on
	if !on {
		for s := range b.tuning {
			if _, ok := b.active(s); !ok {
				b.silence(s)
			}
		}
	}
	b.log.Info("fretboard: sustain", "on", on)
}

// Sustain reports whether sustain mode is on.
func (b *Board) Sustain() bool { return b.sustain }

// ReleaseAll releases every held key in key order.
func (b *Board) ReleaseAll() {
	keys := b.Pressed()
	for _, k := range keys {
		b.KeyUp(k)
	}
}

// Silence stops every note. Held keys stay held.
func (b *Board) Silence() {
	b.stopAll()
	b.log.Debug("fretboard: silenced")
}

// Pressed returns the keys currently down, sorted.
func (b *Board) Pressed() []KeyID {
	out := make([]KeyID, 0, len(b.pressed))
	for k := range b.pressed {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (b *Board) active(s int) (int, bool) {
	best := NoFret
	for f := range b.held[s] {
		if f > best {
			best = f
		}
	}
	return best, best != NoFret
}

func (b *Board) sound(s, fret int) {
	b.silence(s)
	p := Pitch(b.tuning[s].Open, fret, b.octave)
	b.seq++
	b.sounding[s] = &Voice{Fret: fret, Pitch: p, seq: b.seq}
	b.sink.PlayNote(s, fret, p)
}

func (b *Board) silence(s int) {
	if v := b.sounding[s]; v != nil {
		b.sink.StopNote(s, v.Fret)
		b.sounding[s] = nil
	}
}

func (b *Board) stopAll() {
	b.sink.StopAll()
	for s := range b.sounding {
		b.sounding[s] = nil
	}
}

func clampOctave(o int) int {
	return max(MinOctave, min(MaxOctave, o))
}
