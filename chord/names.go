package chord

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// noteNames is the chromatic table used for every name this package emits.
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteNames returns the sharp-spelled chromatic scale starting at C.
func NoteNames() []string {
	out := make([]string, len(noteNames))
	copy(out, noteNames[:])
	return out
}

// PitchClass reduces a pitch to 0..11. Negative pitches wrap the same way.
func PitchClass(pitch int) int {
	return ((pitch % 12) + 12) % 12
}

// Name returns the pitch class name of a MIDI pitch, e.g. 61 -> "C#".
func Name(pitch int) string {
	return noteNames[PitchClass(pitch)]
}

// NameWithOctave returns the scientific name of a MIDI pitch (60 -> "C4").
func NameWithOctave(pitch int) string {
	return fmt.Sprintf("%s%d", Name(pitch), octaveOf(pitch))
}

func octaveOf(pitch int) int {
	o := pitch / 12
	if pitch < 0 && pitch%12 != 0 {
		o--
	}
	return o - 1
}

// Frequency returns the equal-tempered frequency of a pitch, A4 = 440 Hz.
func Frequency(pitch int) float64 {
	return 440.0 * math.Pow(2, float64(pitch-69)/12.0)
}

var letterClass = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ClassOf parses a note name without octave ("C", "F#", "Bb") into a pitch
// class.
func ClassOf(name string) (int, bool) {
	off, rest, ok := parseClass(name)
	if !ok || rest != "" {
		return 0, false
	}
	return PitchClass(off), true
}

// ParseNote parses a note given either as a MIDI number ("60") or as a name
// with optional octave ("C", "Eb3", "F#4"). A name without octave resolves to
// octave 4.
func ParseNote(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty note")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return 0, fmt.Errorf("pitch %d out of MIDI range", n)
		}
		return n, nil
	}
	off, rest, ok := parseClass(s)
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", s)
	}
	octave := 4
	if rest != "" {
		o, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid octave in %q", s)
		}
		octave = o
	}
	pitch := (octave+1)*12 + off
	if pitch < 0 || pitch > 127 {
		return 0, fmt.Errorf("note %q out of MIDI range", s)
	}
	return pitch, nil
}

// parseClass returns the semitone offset of a note name from C in the same
// octave. Accidentals are not wrapped, so "Cb" is -1 and "B#" is 12.
func parseClass(s string) (off int, rest string, ok bool) {
	if s == "" {
		return 0, "", false
	}
	base, found := letterClass[strings.ToUpper(s[:1])[0]]
	if !found {
		return 0, "", false
	}
	i := 1
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			base++
		case 'b':
			base--
		default:
			return base, s[i:], true
		}
	}
	return base, "", true
}
