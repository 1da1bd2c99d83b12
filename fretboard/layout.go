package fretboard

import (
	"fmt"
	"strings"
)

// KeyID identifies a physical key by the string the terminal reports for it
// ("q", "1", ";").
type KeyID string

// Position is a (string, fret) pair on the neck.
type Position struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

// DefaultRows is the stock layout: one keyboard row per string, top row is
// string 0, the column is the fret.
var DefaultRows = []string{
	"1234567890",
	"qwertyuiop",
	"asdfghjkl;",
	"zxcvbnm,./",
}

// DefaultFrets is the number of frets in the stock layout (0..9).
const DefaultFrets = 10

// Layout maps keys to neck positions.
type Layout struct {
	keys  map[KeyID]Position
	rows  [][]KeyID
	frets int
}

// NewLayout builds a layout from keyboard rows. Each rune of a row is one
// key; columns at or beyond frets are ignored. A key may appear only once.
func NewLayout(rows []string, frets int) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("layout: no rows")
	}
	if frets <= 0 {
		return nil, fmt.Errorf("layout: fret count %d must be positive", frets)
	}
	l := &Layout{
		keys:  make(map[KeyID]Position),
		rows:  make([][]KeyID, len(rows)),
		frets: frets,
	}
	for s, row := range rows {
		if row == "" {
			return nil, fmt.Errorf("layout: row %d is empty", s)
		}
		for f, r := range []rune(row) {
			if f >= frets {
				break
			}
			k := KeyID(strings.ToLower(string(r)))
			if prev, dup := l.keys[k]; dup {
				return nil, fmt.Errorf("layout: key %q used twice (string %d fret %d, string %d fret %d)",
					k, prev.String, prev.Fret, s, f)
			}
			l.keys[k] = Position{String: s, Fret: f}
			l.rows[s] = append(l.rows[s], k)
		}
	}
	return l, nil
}

// DefaultLayout returns the stock four-row layout.
func DefaultLayout() *Layout {
	l, err := NewLayout(DefaultRows, DefaultFrets)
	if err != nil {
		panic(err)
	}
	return l
}

// Lookup resolves a key.
func (l *Layout) Lookup(k KeyID) (Position, bool) {
	p, ok := l.keys[k]
	return p, ok
}

// Key returns the key bound to a position.
func (l *Layout) Key(p Position) (KeyID, bool) {
	if p.String < 0 || p.String >= len(l.rows) || p.Fret < 0 || p.Fret >= len(l.rows[p.String]) {
		return "", false
	}
	return l.rows[p.String][p.Fret], true
}

// Strings is the number of rows.
func (l *Layout) Strings() int { return len(l.rows) }

// Frets is the configured fret count.
func (l *Layout) Frets() int { return l.frets }

// Rows returns a copy of the key grid, row by row.
func (l *Layout) Rows() [][]KeyID {
	out := make([][]KeyID, len(l.rows))
	for i, r := range l.rows {
		out[i] = append([]KeyID(nil), r...)
	}
	return out
}
