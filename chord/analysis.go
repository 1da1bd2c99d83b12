package chord

// Analysis is the note report shown next to the fretboard.
type Analysis struct {
	Pitches         []int    `json:"pitches"`
	Names           []string `json:"names"`
	NamesWithOctave []string `json:"namesWithOctave"`
	Count           int      `json:"count"`
	Chord           *Result  `json:"chord"`
}

// Analyze names every pitch and runs Recognize over them. Pitches are kept
// in the order given.
func (e *Engine) Analyze(pitches []int) Analysis {
	a := Analysis{
		Pitches:         append([]int{}, pitches...),
		Names:           make([]string, len(pitches)),
		NamesWithOctave: make([]string, len(pitches)),
		Count:           len(pitches),
	}
	for i, p := range pitches {
		a.Names[i] = Name(p)
		a.NamesWithOctave[i] = NameWithOctave(p)
	}
	if r, ok := e.Recognize(pitches); ok {
		a.Chord = &r
	}
	return a
}
