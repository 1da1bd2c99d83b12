package api

import (
	"sync"
	"time"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/fretboard"
)

// State is what GET /api/v1/state returns.
type State struct {
	Board     fretboard.Snapshot `json:"board"`
	Analysis  chord.Analysis     `json:"analysis"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Store holds the latest published state. The control loop writes it, HTTP
// handlers read it.
type Store struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Publish replaces the stored state. snap and a must not be modified by the
// caller afterwards.
func (s *Store) Publish(snap fretboard.Snapshot, a chord.Analysis) {
	s.mu.Lock()
	s.state = State{Board: snap, Analysis: a, UpdatedAt: s.now()}
	s.mu.Unlock()
}

// State returns the latest published state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
