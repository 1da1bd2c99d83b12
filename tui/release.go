package tui

import (
	"sort"
	"time"

	"github.com/chase3718/fretkeys/fretboard"
)

// releaseWatch infers key releases. Terminals report presses and
// auto-repeats but never releases, so a key counts as held while it keeps
// repeating and as released once it has been quiet for longer than after.
type releaseWatch struct {
	after    time.Duration
	lastSeen map[fretboard.KeyID]time.Time
}

func newReleaseWatch(after time.Duration) *releaseWatch {
	return &releaseWatch{after: after, lastSeen: make(map[fretboard.KeyID]time.Time)}
}

// seen records a press or repeat and reports whether the key was not
// already held.
func (w *releaseWatch) seen(k fretboard.KeyID, now time.Time) bool {
	_, held := w.lastSeen[k]
	w.lastSeen[k] = now
	return !held
}

// expired removes and returns, sorted, the keys quiet for longer than after.
func (w *releaseWatch) expired(now time.Time) []fretboard.KeyID {
	var out []fretboard.KeyID
	for k, t := range w.lastSeen {
		if now.Sub(t) > w.after {
			out = append(out, k)
			delete(w.lastSeen, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *releaseWatch) reset() {
	clear(w.lastSeen)
}
