package midi

import "strings"

// Instrument is a General MIDI program.
type Instrument struct {
	Name    string
	Program uint8
}

// GeneralMIDI is the instrument menu offered on a MIDI port.
var GeneralMIDI = []Instrument{
	{"Piano", 0},
	{"Electric Piano", 4},
	{"Acoustic Guitar (nylon)", 24},
	{"Acoustic Guitar (steel)", 25},
	{"Electric Guitar (clean)", 26},
	{"Electric Guitar (jazz)", 27},
	{"Electric Guitar (muted)", 28},
	{"Overdriven Guitar", 29},
	{"Distortion Guitar", 30},
	{"Guitar Harmonics", 31},
	{"Acoustic Bass", 32},
	{"Electric Bass (finger)", 33},
	{"Electric Bass (pick)", 34},
	{"Violin", 40},
	{"Trumpet", 56},
	{"Saxophone", 65},
	{"Flute", 73},
	{"Synth Lead", 80},
	{"Synth Pad", 88},
}

// InstrumentByName finds a General MIDI instrument, ignoring case.
func InstrumentByName(name string) (Instrument, bool) {
	for _, in := range GeneralMIDI {
		if strings.EqualFold(in.Name, name) {
			return in, true
		}
	}
	return Instrument{}, false
}
