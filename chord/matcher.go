package chord

// Candidate is one chord a Matcher found for an ordered list of notes.
type Candidate struct {
	Label      string   // display label, e.g. "Am7"
	Root       string   // root note name
	Components []string // note names of every chord tone, root first
}

// Matcher names chords from an ordered sequence of note names. The order
// matters: implementations may treat the first note as the root and the
// rest as a voicing above it. No match is an empty result, not an error.
type Matcher interface {
	Match(notes []string) []Candidate
}

// IntervalMatcher matches notes against a table of chord qualities. The
// first note is the root; each following note is placed above the previous
// one, and the resulting semitone positions must equal a table entry
// exactly.
type IntervalMatcher struct{}

// Match implements Matcher.
func (IntervalMatcher) Match(notes []string) []Candidate {
	if len(notes) < 2 {
		return nil
	}
	classes := make([]int, len(notes))
	for i, n := range notes {
		pc, ok := ClassOf(n)
		if !ok {
			return nil
		}
		classes[i] = pc
	}
	positions := stack(classes)

	var out []Candidate
	for _, q := range qualities {
		if !q.matches(positions) {
			continue
		}
		root := noteNames[classes[0]]
		out = append(out, Candidate{
			Label:      root + q.name,
			Root:       root,
			Components: componentNames(classes[0], q.positions),
		})
	}
	return out
}

// stack lays pitch classes out as an ascending voicing starting at the first
// class and returns each note's distance from it in semitones.
func stack(classes []int) []int {
	root := classes[0]
	cur := root
	out := make([]int, len(classes))
	for i, pc := range classes {
		v := pc
		for v < cur {
			v += 12
		}
		out[i] = v - root
		cur = v
	}
	return out
}

func componentNames(root int, positions []int) []string {
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = noteNames[PitchClass(root+p)]
	}
	return out
}
