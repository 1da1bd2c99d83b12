// Package chord names chords from the set of pitches currently sounding.
package chord

import (
	"sort"
)

// Result is a recognized chord.
type Result struct {
	Name    string `json:"name"`
	Root    string `json:"root"`
	Partial bool   `json:"partial,omitempty"`
}

// Engine runs the layered recognition strategies against a Matcher. It
// holds no state between calls.
type Engine struct {
	matcher Matcher
}

// New returns an Engine backed by m. A nil matcher selects IntervalMatcher.
func New(m Matcher) *Engine {
	if m == nil {
		m = IntervalMatcher{}
	}
	return &Engine{matcher: m}
}

// Recognize names the chord formed by pitches. The order of pitches is
// significant only as the "natural" order tried by one fallback; duplicates
// and octaves collapse to pitch classes first. ok is false when fewer than
// two pitch classes are present or nothing matched.
func (e *Engine) Recognize(pitches []int) (Result, bool) {
	classes := uniqueClasses(pitches)
	if len(classes) < 2 {
		return Result{}, false
	}
	names := namesOf(classes)

	// Every class as root, the rest in lexical order.
	var found []Candidate
	for i, root := range names {
		rest := make([]string, 0, len(names)-1)
		rest = append(rest, names[:i]...)
		rest = append(rest, names[i+1:]...)
		sort.Strings(rest)
		found = append(found, e.matcher.Match(append([]string{root}, rest...))...)
	}
	if len(found) == 0 {
		found = e.matcher.Match(names)
	}
	if len(found) == 0 {
		found = e.matcher.Match(namesOf(chromatic(classes)))
	}
	if len(found) > 0 {
		return Result{Name: found[0].Label, Root: found[0].Root}, true
	}

	if len(names) >= 3 {
		if r, ok := e.partial(names); ok {
			return r, true
		}
	}
	if len(classes) == 2 {
		return powerChord(classes[0], classes[1])
	}
	return Result{}, false
}

// partial drops one note at a time and accepts a subset match only when the
// dropped note is still one of that chord's tones.
func (e *Engine) partial(names []string) (Result, bool) {
	for i, removed := range names {
		subset := make([]string, 0, len(names)-1)
		subset = append(subset, names[:i]...)
		subset = append(subset, names[i+1:]...)

		found := e.matcher.Match(subset)
		if len(found) == 0 {
			continue
		}
		best := found[0]
		for _, c := range best.Components {
			if c == removed {
				return Result{Name: best.Label + " (partial)", Root: best.Root, Partial: true}, true
			}
		}
	}
	return Result{}, false
}

// powerChord reports a root-and-fifth dyad, whichever way round it was given.
func powerChord(a, b int) (Result, bool) {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case (hi-lo)%12 == 7:
		return Result{Name: noteNames[lo] + "5", Root: noteNames[lo]}, true
	case (lo-hi+12)%12 == 7:
		return Result{Name: noteNames[hi] + "5", Root: noteNames[hi]}, true
	}
	return Result{}, false
}

// uniqueClasses reduces pitches to pitch classes, keeping first-seen order.
func uniqueClasses(pitches []int) []int {
	seen := make(map[int]bool, len(pitches))
	out := make([]int, 0, len(pitches))
	for _, p := range pitches {
		pc := PitchClass(p)
		if seen[pc] {
			continue
		}
		seen[pc] = true
		out = append(out, pc)
	}
	return out
}

func chromatic(classes []int) []int {
	out := append([]int(nil), classes...)
	sort.Ints(out)
	return out
}

func namesOf(classes []int) []string {
	out := make([]string, len(classes))
	for i, pc := range classes {
		out[i] = noteNames[pc]
	}
	return out
}
