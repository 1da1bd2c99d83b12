package fretboard

import (
	"strings"

	"github.com/chase3718/fretkeys/chord"
)

// String is one open string: its display name and open MIDI pitch.
type String struct {
	Name string `json:"name"`
	Open int    `json:"open"`
}

// Tuning lists the open strings by StringID. Index 0 is the top keyboard
// row.
type Tuning []String

// Preset is a named tuning.
type Preset struct {
	Name   string `json:"name"`
	Tuning Tuning `json:"strings"`
}

// CustomTuning is reported by Tuning.Name when no preset matches.
const CustomTuning = "Custom"

var presets = []Preset{
	{"Standard", Tuning{{"G", 55}, {"D", 50}, {"A", 45}, {"E", 40}}},
	{"Drop D", Tuning{{"G", 55}, {"D", 50}, {"A", 45}, {"D", 38}}},
	{"Half Step Down", Tuning{{"F#", 54}, {"C#", 49}, {"G#", 44}, {"D#", 39}}},
	{"Whole Step Down", Tuning{{"F", 53}, {"C", 48}, {"G", 43}, {"D", 38}}},
	{"Fifths", Tuning{{"A", 57}, {"D", 50}, {"G", 43}, {"C", 36}}},
}

// Presets returns a copy of the built-in tuning presets, Standard first.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		out[i] = Preset{Name: p.Name, Tuning: p.Tuning.Clone()}
	}
	return out
}

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Tuning, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p.Tuning.Clone(), true
		}
	}
	return nil, false
}

// StandardTuning returns G D A E (55 50 45 40).
func StandardTuning() Tuning {
	return presets[0].Tuning.Clone()
}

// Clone returns an independent copy of t.
func (t Tuning) Clone() Tuning {
	return append(Tuning(nil), t...)
}

// Name returns the name of the preset whose open pitches equal t, or
// CustomTuning.
func (t Tuning) Name() string {
	for _, p := range presets {
		if p.Tuning.samePitches(t) {
			return p.Name
		}
	}
	return CustomTuning
}

func (t Tuning) samePitches(o Tuning) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if t[i].Open != o[i].Open {
			return false
		}
	}
	return true
}

// Pitch derives the pitch of a fret on an open string.
func Pitch(open, fret, octave int) int {
	return open + fret + 12*octave
}

// StringFor builds a String named after its open pitch class.
func StringFor(open int) String {
	return String{Name: chord.Name(open), Open: open}
}
