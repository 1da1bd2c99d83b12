package synth

import (
	"math"
	"sync/atomic"
)

// Oscillator maps a phase in [0, 2π) to a sample.
type Oscillator func(phase float64) float64

// Instrument is a waveform plus its envelope, in per-sample steps.
type Instrument struct {
	Name    string
	Osc     Oscillator
	Attack  float64 // volume added per sample until full
	Decay   float64 // volume multiplier per sample once full, 1 = hold
	Release float64 // volume removed per sample after NoteOff
}

var instruments = []Instrument{
	{Name: "Pluck", Osc: oscPluck, Attack: 0.2, Decay: 0.99995, Release: 0.002},
	{Name: "Electric Piano", Osc: oscPiano, Attack: 0.1, Decay: 0.99999, Release: 0.001},
	{Name: "8-Bit Square", Osc: oscSquare, Attack: 0.1, Decay: 1, Release: 0.001},
	{Name: "Synth Saw", Osc: oscSaw, Attack: 0.1, Decay: 1, Release: 0.001},
	{Name: "Soft Flute", Osc: oscTriangle, Attack: 0.005, Decay: 1, Release: 0.0005},
}

// -- Waveform Math --

func oscPluck(p float64) float64 {
	v1 := math.Sin(p)
	v2 := math.Sin(p*2.0) * 0.4
	v3 := math.Sin(p*4.0) * 0.15
	return (v1 + v2 + v3) * 0.15
}

func oscPiano(p float64) float64 {
	v1 := math.Sin(p)
	v2 := math.Sin(p*2.0) * 0.5
	v3 := math.Sin(p*3.0) * 0.2
	return (v1 + v2 + v3) * 0.15
}

func oscSquare(p float64) float64 {
	if math.Sin(p) >= 0 {
		return 0.1
	}
	return -0.1
}

func oscSaw(p float64) float64 {
	norm := p / (2 * math.Pi)
	return (2.0*norm - 1.0) * 0.1
}

func oscTriangle(p float64) float64 {
	norm := p / (2 * math.Pi)
	return (2.0*math.Abs(2.0*norm-1.0) - 1.0) * 0.2
}

// silent is the volume below which a decaying voice is dropped.
const silent = 0.001

// voice is one sounding note. Stream runs on the speaker goroutine; release
// may be called from anywhere.
type voice struct {
	step  float64
	phase float64
	vol   float64
	full  bool
	inst  Instrument

	releasing atomic.Bool
	finished  atomic.Bool
}

func newVoice(freq float64, sampleRate int, inst Instrument) *voice {
	return &voice{
		step: freq * 2 * math.Pi / float64(sampleRate),
		inst: inst,
	}
}

func (v *voice) Stream(samples [][2]float64) (n int, ok bool) {
	const twoPi = 2 * math.Pi
	if v.finished.Load() {
		return 0, false
	}
	for i := range samples {
		switch {
		case v.releasing.Load():
			v.vol -= v.inst.Release
		case !v.full:
			v.vol += v.inst.Attack
			if v.vol >= 1 {
				v.vol = 1
				v.full = true
			}
		default:
			v.vol *= v.inst.Decay
		}
		if v.vol <= 0 || (v.full && v.vol < silent) {
			v.vol = 0
			v.finished.Store(true)
			return i, i > 0
		}

		final := v.inst.Osc(v.phase) * v.vol
		samples[i][0] = final
		samples[i][1] = final

		v.phase += v.step
		if v.phase >= twoPi {
			v.phase -= twoPi
		}
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

func (v *voice) release() { v.releasing.Store(true) }

func (v *voice) done() bool { return v.finished.Load() }
