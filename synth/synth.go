// Package synth is a small software synthesizer played through the system
// speaker.
package synth

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/chase3718/fretkeys/chord"
)

// Defaults for Options.
const (
	DefaultSampleRate = 44100
	DefaultBuffer     = 50 * time.Millisecond
)

// Options configures a Synth.
type Options struct {
	SampleRate int
	Buffer     time.Duration
	Instrument string
	Logger     *slog.Logger
}

// Synth mixes one voice per sounding pitch. It implements
// fretboard.PitchSink and fretboard.Voicer.
type Synth struct {
	mu         sync.Mutex
	mixer      *beep.Mixer
	sampleRate beep.SampleRate
	voices     map[int][]*voice
	inst       int
	log        *slog.Logger

	lock, unlock func()
	closeSpeaker func()
}

// New opens the speaker and starts playing the mixer.
func New(opts Options) (*Synth, error) {
	s := newSynth(opts)
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if err := speaker.Init(s.sampleRate, s.sampleRate.N(buffer)); err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(s.mixer)
	s.lock, s.unlock = speaker.Lock, speaker.Unlock
	s.closeSpeaker = speaker.Close
	s.log.Info("synth: speaker started", "sample_rate", int(s.sampleRate), "buffer", buffer, "instrument", s.Instrument())
	return s, nil
}

// newSynth builds a synth whose mixer is not attached to any device.
func newSynth(opts Options) *Synth {
	rate := opts.SampleRate
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Synth{
		mixer:        &beep.Mixer{},
		sampleRate:   beep.SampleRate(rate),
		voices:       make(map[int][]*voice),
		log:          log,
		lock:         func() {},
		unlock:       func() {},
		closeSpeaker: func() {},
	}
	if opts.Instrument != "" && !s.SetInstrument(opts.Instrument) {
		log.Warn("synth: unknown instrument, using default", "instrument", opts.Instrument)
	}
	return s
}

// NoteOn starts a new voice at the pitch's frequency.
func (s *Synth) NoteOn(pitch int) {
	if pitch < 0 || pitch > 127 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	v := newVoice(chord.Frequency(pitch), int(s.sampleRate), instruments[s.inst])
	s.voices[pitch] = append(s.voices[pitch], v)

	s.lock()
	s.mixer.Add(v)
	s.unlock()
}

// NoteOff releases every voice on the pitch.
func (s *Synth) NoteOff(pitch int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.voices[pitch] {
		v.release()
	}
	s.prune()
}

// Active returns the number of voices still sounding.
func (s *Synth) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	n := 0
	for _, vs := range s.voices {
		n += len(vs)
	}
	return n
}

// Instruments implements fretboard.Voicer.
func (s *Synth) Instruments() []string {
	out := make([]string, len(instruments))
	for i, in := range instruments {
		out[i] = in.Name
	}
	return out
}

// Instrument implements fretboard.Voicer.
func (s *Synth) Instrument() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return instruments[s.inst].Name
}

// SetInstrument switches the instrument for new voices.
func (s *Synth) SetInstrument(name string) bool {
	for i, in := range instruments {
		if strings.EqualFold(in.Name, name) {
			s.mu.Lock()
			s.inst = i
			s.mu.Unlock()
			s.log.Info("synth: instrument", "name", in.Name)
			return true
		}
	}
	return false
}

// Close releases all voices and closes the speaker.
func (s *Synth) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vs := range s.voices {
		for _, v := range vs {
			v.release()
		}
	}
	clear(s.voices)
	s.closeSpeaker()
	return nil
}

func (s *Synth) prune() {
	for p, vs := range s.voices {
		live := vs[:0]
		for _, v := range vs {
			if !v.done() {
				live = append(live, v)
			}
		}
		if len(live) == 0 {
			delete(s.voices, p)
		} else {
			s.voices[p] = live
		}
	}
}
