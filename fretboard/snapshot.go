package fretboard

import "sort"

// StringState is one string in a Snapshot.
type StringState struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Open     int    `json:"open"`
	Held     []int  `json:"held"`
	Active   int    `json:"active"`
	Sounding *Voice `json:"sounding,omitempty"`
}

// Snapshot is a read-only copy of the board state.
type Snapshot struct {
	Strings []StringState `json:"strings"`
	Octave  int           `json:"octave"`
	Sustain bool          `json:"sustain"`
	Tuning  string        `json:"tuning"`
	Pressed []KeyID       `json:"pressed"`
}

// Snapshot copies the current state. Held frets are ascending.
func (b *Board) Snapshot() Snapshot {
	snap := Snapshot{
		Strings: make([]StringState, len(b.tuning)),
		Octave:  b.octave,
		Sustain: b.sustain,
		Tuning:  b.tuning.Name(),
		Pressed: b.Pressed(),
	}
	for s, st := range b.tuning {
		held := make([]int, 0, len(b.held[s]))
		for f := range b.held[s] {
			held = append(held, f)
		}
		sort.Ints(held)
		active, _ := b.active(s)
		ss := StringState{
			Index:  s,
			Name:   st.Name,
			Open:   st.Open,
			Held:   held,
			Active: active,
		}
		if v := b.sounding[s]; v != nil {
			cp := *v
			ss.Sounding = &cp
		}
		snap.Strings[s] = ss
	}
	return snap
}

// Pitches returns the sounding pitches in the order they were played.
func (s Snapshot) Pitches() []int {
	voices := make([]*Voice, 0, len(s.Strings))
	for _, st := range s.Strings {
		if st.Sounding != nil {
			voices = append(voices, st.Sounding)
		}
	}
	sort.SliceStable(voices, func(i, j int) bool { return voices[i].seq < voices[j].seq })
	out := make([]int, len(voices))
	for i, v := range voices {
		out[i] = v.Pitch
	}
	return out
}

// IsHeld reports whether fret is held on string str.
func (s Snapshot) IsHeld(str, fret int) bool {
	if str < 0 || str >= len(s.Strings) {
		return false
	}
	for _, f := range s.Strings[str].Held {
		if f == fret {
			return true
		}
	}
	return false
}
