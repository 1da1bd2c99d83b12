package midi

import (
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Recording resolution and tempo. Deltas are wall-clock time converted at
// this tempo, so the file plays back in real time.
const (
	TicksPerQuarter = 960
	RecordBPM       = 120.0
)

type recordedEvent struct {
	at    time.Time
	pitch uint8
	on    bool
}

// Recorder captures note events with their arrival time and writes them as
// a single-track SMF. It implements fretboard.PitchSink.
type Recorder struct {
	mu       sync.Mutex
	channel  uint8
	velocity uint8
	start    time.Time
	events   []recordedEvent
	now      func() time.Time
}

// NewRecorder starts a recording clock now.
func NewRecorder(channel, velocity uint8) *Recorder {
	r := &Recorder{
		channel:  channel & 0x0f,
		velocity: velocity,
		now:      time.Now,
	}
	if r.velocity == 0 {
		r.velocity = 100
	}
	r.start = r.now()
	return r
}

func (r *Recorder) NoteOn(pitch int)  { r.add(pitch, true) }
func (r *Recorder) NoteOff(pitch int) { r.add(pitch, false) }

func (r *Recorder) add(pitch int, on bool) {
	if pitch < 0 || pitch > 127 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{at: r.now(), pitch: uint8(pitch), on: on})
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// WriteTo writes the recording as a format-0 SMF. Notes still on at the end
// are closed at the last event.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	r.mu.Lock()
	events := append([]recordedEvent(nil), r.events...)
	r.mu.Unlock()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(RecordBPM))

	var last uint32
	open := make(map[uint8]int)
	for _, ev := range events {
		tick := toTicks(ev.at.Sub(r.start))
		delta := uint32(0)
		if tick > last {
			delta = tick - last
			last = tick
		}
		if ev.on {
			track.Add(delta, gomidi.NoteOn(r.channel, ev.pitch, r.velocity))
			open[ev.pitch]++
			continue
		}
		track.Add(delta, gomidi.NoteOff(r.channel, ev.pitch))
		if open[ev.pitch]--; open[ev.pitch] <= 0 {
			delete(open, ev.pitch)
		}
	}
	for p := range 128 {
		for range open[uint8(p)] {
			track.Add(0, gomidi.NoteOff(r.channel, uint8(p)))
		}
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return 0, fmt.Errorf("failed to add track: %w", err)
	}
	n, err := s.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return n, nil
}

// WriteFile writes the recording to path.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create recording: %w", err)
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toTicks(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(math.Round(d.Seconds() * RecordBPM / 60 * TicksPerQuarter))
}
