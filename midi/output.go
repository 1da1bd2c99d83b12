// Package midi sends the instrument's notes to a MIDI output port and records
// them to Standard MIDI Files.
package midi

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// -------------------- Hot-swap config --------------------

// DefaultPreferred: synth ports picked first when several outputs exist.
var DefaultPreferred = []string{"FluidSynth", "TiMidity", "Microsoft GS Wavetable"}

// DefaultExcluded: virtual/system ports that are never auto-connected.
var DefaultExcluded = []string{"Midi Through", "Through Port", "Dummy"}

const DefaultRescan = 1000 * time.Millisecond

// Options configures an Output.
type Options struct {
	Channel    uint8
	Velocity   uint8
	Instrument string
	Preferred  []string
	Excluded   []string
	Rescan     time.Duration
	Logger     *slog.Logger
}

// outPort is the part of drivers.Out the watcher uses.
type outPort interface {
	String() string
	Open() error
	Close() error
	Send([]byte) error
}

// -------------------- Output --------------------

// Output keeps a connection to the preferred MIDI output and plays pitches on
// it. Ports that come and go are picked up by Tick; notes sent while no port
// is connected are dropped.
//
// Output implements fretboard.PitchSink and fretboard.Voicer.
type Output struct {
	mu           sync.Mutex
	list         func() ([]outPort, error)
	closeDriver  func()
	port         outPort
	selectedName string
	lastRescanAt time.Time
	now          func() time.Time

	opts       Options
	instrument Instrument
	log        *slog.Logger
}

// NewOutput initialises the rtmidi driver. Call Close when done.
func NewOutput(opts Options) (*Output, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	o := newOutput(func() ([]outPort, error) {
		outs, err := drv.Outs()
		if err != nil {
			return nil, err
		}
		ports := make([]outPort, len(outs))
		for i, out := range outs {
			ports[i] = out
		}
		return ports, nil
	}, opts)
	o.closeDriver = func() { drv.Close() }
	return o, nil
}

func newOutput(list func() ([]outPort, error), opts Options) *Output {
	if opts.Rescan <= 0 {
		opts.Rescan = DefaultRescan
	}
	if opts.Velocity == 0 {
		opts.Velocity = 100
	}
	if opts.Preferred == nil {
		opts.Preferred = DefaultPreferred
	}
	if opts.Excluded == nil {
		opts.Excluded = DefaultExcluded
	}
	opts.Channel &= 0x0f
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	inst, ok := InstrumentByName(opts.Instrument)
	if !ok {
		if opts.Instrument != "" {
			log.Warn("midi: unknown instrument, using default", "instrument", opts.Instrument)
		}
		inst = GeneralMIDI[0]
	}
	return &Output{
		list:       list,
		now:        time.Now,
		opts:       opts,
		instrument: inst,
		log:        log,
	}
}

// Run calls Tick until ctx is cancelled.
func (o *Output) Run(ctx context.Context) {
	every := max(o.opts.Rescan/4, 50*time.Millisecond)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	o.Tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Tick()
		}
	}
}

// Tick scans for ports once the rescan interval has elapsed, connects to a
// preferred one and notices when the connected port disappears.
func (o *Output) Tick() {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	if !o.lastRescanAt.IsZero() && now.Sub(o.lastRescanAt) < o.opts.Rescan {
		return
	}
	o.lastRescanAt = now

	outputs := o.listOutputs()

	if o.port != nil {
		if slices.Contains(outputs, o.selectedName) {
			return
		}
		o.log.Warn("midi: device disappeared", "device", o.selectedName)
		o.closeConn()
		o.lastRescanAt = time.Time{} // rescan immediately next tick
		return
	}

	if len(outputs) == 0 {
		return
	}
	cand, ok := o.pickPreferred(outputs)
	if !ok {
		return
	}
	if err := o.openByName(cand); err != nil {
		o.log.Error("midi: connect failed", "device", cand, "err", err)
	}
}

// Connected returns the connected port name.
func (o *Output) Connected() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.selectedName, o.port != nil
}

// NoteOn implements fretboard.PitchSink.
func (o *Output) NoteOn(pitch int) {
	key, ok := o.key(pitch)
	if !ok {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send(gomidi.NoteOn(o.opts.Channel, key, o.opts.Velocity))
}

// NoteOff implements fretboard.PitchSink.
func (o *Output) NoteOff(pitch int) {
	key, ok := o.key(pitch)
	if !ok {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send(gomidi.NoteOff(o.opts.Channel, key))
}

// Instruments implements fretboard.Voicer.
func (o *Output) Instruments() []string {
	out := make([]string, len(GeneralMIDI))
	for i, in := range GeneralMIDI {
		out[i] = in.Name
	}
	return out
}

// Instrument implements fretboard.Voicer.
func (o *Output) Instrument() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.instrument.Name
}

// SetInstrument selects a General MIDI program and sends it if connected.
func (o *Output) SetInstrument(name string) bool {
	inst, ok := InstrumentByName(name)
	if !ok {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.instrument = inst
	o.send(gomidi.ProgramChange(o.opts.Channel, inst.Program))
	o.log.Info("midi: instrument", "name", inst.Name, "program", inst.Program)
	return true
}

// Close silences the channel and shuts down the connection and driver.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.send(gomidi.ControlChange(o.opts.Channel, allNotesOff, 0))
	o.closeConn()
	if o.closeDriver != nil {
		o.closeDriver()
	}
	return nil
}

// -------------------- internal --------------------

const allNotesOff = 123

func (o *Output) key(pitch int) (uint8, bool) {
	if pitch < 0 || pitch > 127 {
		o.log.Warn("midi: pitch out of range, dropped", "pitch", pitch)
		return 0, false
	}
	return uint8(pitch), true
}

// send writes msg to the connected port. A failed write drops the
// connection; the next Tick looks for a port again.
func (o *Output) send(msg gomidi.Message) {
	if o.port == nil {
		return
	}
	if err := o.port.Send(msg); err != nil {
		o.log.Warn("midi: send failed", "device", o.selectedName, "err", err)
		o.closeConn()
		o.lastRescanAt = time.Time{}
		return
	}
	o.log.Debug("midi: sent", "msg", msg.String())
}

func (o *Output) listOutputs() []string {
	ports, err := o.list()
	if err != nil {
		o.log.Error("midi: list outputs failed", "err", err)
		return nil
	}
	var names []string
	for _, p := range ports {
		name := p.String()
		excluded := false
		for _, pat := range o.opts.Excluded {
			if containsCI(name, pat) {
				excluded = true
				break
			}
		}
		if excluded {
			o.log.Debug("midi: output excluded", "device", name)
		} else {
			names = append(names, name)
		}
	}
	o.log.Debug("midi: outputs found", "count", len(names), "devices", strings.Join(names, ", "))
	return names
}

func (o *Output) pickPreferred(outputs []string) (string, bool) {
	for _, pat := range o.opts.Preferred {
		for _, name := range outputs {
			if containsCI(name, pat) {
				return name, true
			}
		}
	}
	if len(outputs) == 1 {
		return outputs[0], true
	}
	return "", false
}

func (o *Output) closeConn() {
	if o.port != nil {
		_ = o.port.Close()
		o.port = nil
	}
	o.selectedName = ""
}

func (o *Output) openByName(name string) error {
	ports, err := o.list()
	if err != nil {
		return err
	}
	var found outPort
	for _, p := range ports {
		if p.String() == name {
			found = p
			break
		}
	}
	if found == nil {
		return fmt.Errorf("output %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}

	o.port = found
	o.selectedName = name
	o.log.Info("midi: connected", "device", name, "channel", o.opts.Channel, "instrument", o.instrument.Name)
	o.send(gomidi.ProgramChange(o.opts.Channel, o.instrument.Program))
	return nil
}

// -------------------- utility --------------------

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
