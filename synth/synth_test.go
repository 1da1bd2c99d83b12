package synth

import (
	"math"
	"testing"
)

// render pulls n samples through the mixer and returns the peak level.
func render(s *Synth, n int) float64 {
	buf := make([][2]float64, 512)
	peak := 0.0
	for n > 0 {
		chunk := buf[:min(n, len(buf))]
		s.mixer.Stream(chunk)
		for _, smp := range chunk {
			peak = math.Max(peak, math.Abs(smp[0]))
		}
		n -= len(chunk)
	}
	return peak
}

func TestNoteOnOff(t *testing.T) {
	s := newSynth(Options{})
	s.NoteOn(69)
	if got := s.Active(); got != 1 {
		t.Fatalf("Active() = %d after NoteOn, want 1", got)
	}
	if peak := render(s, 4096); peak == 0 {
		t.Fatal("voice is silent")
	}

	s.NoteOff(69)
	render(s, 8192)
	if got := s.Active(); got != 0 {
		t.Errorf("Active() = %d after release, want 0", got)
	}
}

func TestNoteOffReleasesSharedPitch(t *testing.T) {
	s := newSynth(Options{Instrument: "8-Bit Square"})
	s.NoteOn(55)
	s.NoteOn(55)
	s.NoteOn(62)
	if got := s.Active(); got != 3 {
		t.Fatalf("Active() = %d, want 3", got)
	}
	s.NoteOff(55)
	render(s, 8192)
	if got := s.Active(); got != 1 {
		t.Errorf("Active() = %d, want only pitch 62 left", got)
	}
}

func TestEnvelopes(t *testing.T) {
	tests := []struct {
		instrument string
		samples    int
		alive      bool
	}{
		{"Pluck", 200000, false},
		{"8-Bit Square", 200000, true},
		{"Soft Flute", 200000, true},
	}
	for _, tt := range tests {
		t.Run(tt.instrument, func(t *testing.T) {
			s := newSynth(Options{Instrument: tt.instrument})
			s.NoteOn(60)
			render(s, tt.samples)
			if got := s.Active() == 1; got != tt.alive {
				t.Errorf("voice alive after %d held samples = %v, want %v", tt.samples, got, tt.alive)
			}
		})
	}
}

func TestOutOfRangeIgnored(t *testing.T) {
	s := newSynth(Options{})
	s.NoteOn(-1)
	s.NoteOn(128)
	if got := s.Active(); got != 0 {
		t.Errorf("Active() = %d, want 0", got)
	}
}

func TestSetInstrument(t *testing.T) {
	s := newSynth(Options{Instrument: "nope"})
	if got := s.Instrument(); got != "Pluck" {
		t.Errorf("default instrument = %q, want Pluck", got)
	}
	if !s.SetInstrument("synth saw") {
		t.Fatal("SetInstrument(synth saw) = false")
	}
	if got := s.Instrument(); got != "Synth Saw" {
		t.Errorf("Instrument() = %q", got)
	}
	if s.SetInstrument("kazoo") {
		t.Error("SetInstrument(kazoo) = true")
	}
	if n := len(s.Instruments()); n != 5 {
		t.Errorf("Instruments() has %d entries, want 5", n)
	}
}

func TestVoiceReleasedBeforeStreaming(t *testing.T) {
	v := newVoice(440, DefaultSampleRate, instruments[0])
	v.release()
	n, ok := v.Stream(make([][2]float64, 64))
	if n != 0 || ok {
		t.Errorf("Stream() = %d, %v, want 0, false", n, ok)
	}
	if !v.done() {
		t.Error("voice not finished")
	}
}

func TestClose(t *testing.T) {
	s := newSynth(Options{})
	s.NoteOn(60)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := s.Active(); got != 0 {
		t.Errorf("Active() = %d after Close, want 0", got)
	}
}
