package rig

import (
	"fmt"
	"log/slog"
	"sync"
)

// Defaults for the actuator profile carried in every frame.
const (
	DefaultProfile  = 0
	DefaultDuration = 20
)

type frameSender interface {
	SendFrame(Frame) error
	Close() error
}

// Options configures a Rig.
type Options struct {
	Profile  byte
	Duration byte
	Logger   *slog.Logger
}

// Rig mirrors the board onto the rig: one fret per string, strummed when a
// note starts. It implements fretboard.Sink.
type Rig struct {
	mu       sync.Mutex
	port     frameSender
	frets    []byte
	profile  byte
	duration byte
	seq      byte
	log      *slog.Logger
}

// New creates a rig sink for the given number of strings.
func New(port *Port, strings int, opts Options) (*Rig, error) {
	return newRig(port, strings, opts)
}

func newRig(port frameSender, strings int, opts Options) (*Rig, error) {
	if strings < 1 || strings > MaxStrings {
		return nil, fmt.Errorf("rig: %d strings, want 1..%d", strings, MaxStrings)
	}
	if opts.Duration == 0 {
		opts.Duration = DefaultDuration
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Rig{
		port:     port,
		frets:    NewFrame(strings).Fret,
		profile:  opts.Profile,
		duration: opts.Duration,
		log:      log,
	}, nil
}

// PlayNote frets the string and strums it.
func (r *Rig) PlayNote(s, fret, pitch int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s < 0 || s >= len(r.frets) {
		r.log.Warn("rig: string out of range", "string", s)
		return
	}
	if fret < 0 || fret >= OpenFret {
		r.log.Warn("rig: fret out of range", "string", s, "fret", fret)
		return
	}
	r.frets[s] = byte(fret)
	r.log.Debug("rig: play", "string", s, "fret", fret, "pitch", pitch)
	r.send(1 << s)
}

// StopNote mutes the string if it is still on that fret.
func (r *Rig) StopNote(s, fret int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s < 0 || s >= len(r.frets) || int(r.frets[s]) != fret {
		return
	}
	r.frets[s] = OpenFret
	r.send(0)
}

// StopAll mutes every string.
func (r *Rig) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.frets {
		r.frets[i] = OpenFret
	}
	r.send(0)
}

// Close mutes the rig and closes the port.
func (r *Rig) Close() error {
	r.StopAll()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port.Close()
}

func (r *Rig) send(strum byte) {
	f := Frame{
		Fret:      append([]byte(nil), r.frets...),
		StrumMask: strum,
		ProfileID: r.profile,
		Duration:  r.duration,
		Seq:       r.seq,
	}
	r.seq++
	if err := r.port.SendFrame(f); err != nil {
		r.log.Error("rig: frame not sent", "seq", f.Seq, "err", err)
	}
}
