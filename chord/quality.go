package chord

// quality is a chord suffix and the semitone positions of its tones above
// the root, in ascending voicing order. Positions above 11 are compound
// intervals (14 = ninth, 17 = eleventh, 21 = thirteenth).
type quality struct {
	name      string
	positions []int
}

// qualities is matched in order and the first exact match wins, so the
// plainest spelling of an interval set comes first. There are no dyads here:
// a bare fifth is reported by the power-chord fallback instead.
var qualities = []quality{
	// triads
	{"", []int{0, 4, 7}},
	{"m", []int{0, 3, 7}},
	{"dim", []int{0, 3, 6}},
	{"aug", []int{0, 4, 8}},
	{"(b5)", []int{0, 4, 6}},
	{"sus2", []int{0, 2, 7}},
	{"sus4", []int{0, 5, 7}},

	// four notes
	{"6", []int{0, 4, 7, 9}},
	{"6b5", []int{0, 4, 6, 9}},
	{"m6", []int{0, 3, 7, 9}},
	{"7", []int{0, 4, 7, 10}},
	{"7b5", []int{0, 4, 6, 10}},
	{"7#5", []int{0, 4, 8, 10}},
	{"7sus4", []int{0, 5, 7, 10}},
	{"m7", []int{0, 3, 7, 10}},
	{"m7b5", []int{0, 3, 6, 10}},
	{"m7#5", []int{0, 3, 8, 10}},
	{"dim6", []int{0, 3, 6, 8}},
	{"dim7", []int{0, 3, 6, 9}},
	{"maj7", []int{0, 4, 7, 11}},
	{"maj7#5", []int{0, 4, 8, 11}},
	{"mmaj7", []int{0, 3, 7, 11}},
	{"add2", []int{0, 2, 4, 7}},
	{"madd2", []int{0, 2, 3, 7}},
	{"add4", []int{0, 4, 5, 7}},
	{"madd4", []int{0, 3, 5, 7}},
	{"add9", []int{0, 4, 7, 14}},
	{"madd9", []int{0, 3, 7, 14}},
	{"sus4add9", []int{0, 5, 7, 14}},
	{"sus4add2", []int{0, 2, 5, 7}},
	{"add11", []int{0, 4, 7, 17}},

	// five notes and up
	{"69", []int{0, 4, 7, 9, 14}},
	{"m69", []int{0, 3, 7, 9, 14}},
	{"9", []int{0, 4, 7, 10, 14}},
	{"m9", []int{0, 3, 7, 10, 14}},
	{"maj9", []int{0, 4, 7, 11, 14}},
	{"9sus4", []int{0, 5, 7, 10, 14}},
	{"7b9", []int{0, 4, 7, 10, 13}},
	{"7#9", []int{0, 4, 7, 10, 15}},
	{"9b5", []int{0, 4, 6, 10, 14}},
	{"9#5", []int{0, 4, 8, 10, 14}},
	{"7#9b5", []int{0, 4, 6, 10, 15}},
	{"7#9#5", []int{0, 4, 8, 10, 15}},
	{"m7b9b5", []int{0, 3, 6, 10, 13}},
	{"7b9b5", []int{0, 4, 6, 10, 13}},
	{"7b9#5", []int{0, 4, 8, 10, 13}},
	{"11", []int{0, 7, 10, 14, 17}},
	{"7#11", []int{0, 4, 7, 10, 18}},
	{"maj7#11", []int{0, 4, 7, 11, 18}},
	{"7b13", []int{0, 4, 7, 10, 20}},
	{"m7add11", []int{0, 3, 7, 10, 17}},
	{"maj7add11", []int{0, 4, 7, 11, 17}},
	{"mmaj7add11", []int{0, 3, 7, 11, 17}},
	{"7b9#9", []int{0, 4, 7, 10, 13, 15}},
	{"7b9#11", []int{0, 4, 7, 10, 13, 18}},
	{"7#9#11", []int{0, 4, 7, 10, 15, 18}},
	{"9#11", []int{0, 4, 7, 10, 14, 18}},
	{"13", []int{0, 4, 7, 10, 14, 21}},
	{"13b9", []int{0, 4, 7, 10, 13, 21}},
	{"13#9", []int{0, 4, 7, 10, 15, 21}},
	{"13#11", []int{0, 4, 7, 10, 18, 21}},
	{"maj13", []int{0, 4, 7, 11, 14, 21}},
	{"7b9b13", []int{0, 4, 7, 10, 13, 17, 20}},
}

func (q quality) matches(positions []int) bool {
	if len(q.positions) != len(positions) {
		return false
	}
	for i, p := range q.positions {
		if positions[i] != p {
			return false
		}
	}
	return true
}
