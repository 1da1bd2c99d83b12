// Package tui is the terminal front end: it feeds key presses to the board
// and draws the neck and the recognized chord.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/fretboard"
)

// Defaults for Options.
const (
	DefaultReleaseAfter = 600 * time.Millisecond
	DefaultFrameRate    = 60
)

// Options configures the model.
type Options struct {
	Board  *fretboard.Board
	Engine *chord.Engine
	// Voicer switches instruments; nil disables the instrument keys.
	Voicer       fretboard.Voicer
	ReleaseAfter time.Duration
	FrameRate    int
	// Publish, if set, receives every refreshed state.
	Publish func(fretboard.Snapshot, chord.Analysis)
	Logger  *slog.Logger
}

type frameMsg time.Time

// Model is the bubbletea model.
type Model struct {
	board   *fretboard.Board
	engine  *chord.Engine
	voicer  fretboard.Voicer
	publish func(fretboard.Snapshot, chord.Analysis)
	log     *slog.Logger

	keys    keyMap
	help    help.Model
	release *releaseWatch
	frame   time.Duration

	snap       fretboard.Snapshot
	analysis   chord.Analysis
	selected   int
	showLayout bool
	status     string
	width      int
	quitting   bool
}

// New creates the model.
func New(opts Options) Model {
	if opts.Engine == nil {
		opts.Engine = chord.New(nil)
	}
	if opts.ReleaseAfter <= 0 {
		opts.ReleaseAfter = DefaultReleaseAfter
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultFrameRate
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	m := Model{
		board:   opts.Board,
		engine:  opts.Engine,
		voicer:  opts.Voicer,
		publish: opts.Publish,
		log:     log,
		keys:    defaultKeys(),
		help:    help.New(),
		release: newReleaseWatch(opts.ReleaseAfter),
		frame:   time.Second / time.Duration(opts.FrameRate),
	}
	m.refresh()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		for _, k := range m.release.expired(time.Time(msg)) {
			m.board.KeyUp(k)
		}
		m.refresh()
		return m, m.tick()

	case tea.KeyMsg:
		if m.handleControl(msg) {
			if m.quitting {
				return m, tea.Quit
			}
			m.refresh()
			return m, nil
		}
		if k, ok := fretKey(msg); ok {
			if _, mapped := m.board.Layout().Lookup(k); mapped && m.release.seen(k, time.Now()) {
				m.board.KeyDown(k)
				m.refresh()
			}
		}
	}
	return m, nil
}

// handleControl runs a control binding and reports whether msg was one.
func (m *Model) handleControl(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.board.ReleaseAll()
		m.board.Silence()
		m.release.reset()
		m.quitting = true

	case key.Matches(msg, m.keys.Strum):
		m.board.Strum()

	case key.Matches(msg, m.keys.Sustain):
		m.board.SetSustain(!m.board.Sustain())
		m.status = "sustain " + onOff(m.board.Sustain())

	case key.Matches(msg, m.keys.OctaveUp):
		m.status = fmt.Sprintf("octave %+d", m.board.ChangeOctaveOffset(1))

	case key.Matches(msg, m.keys.OctaveDown):
		m.status = fmt.Sprintf("octave %+d", m.board.ChangeOctaveOffset(-1))

	case key.Matches(msg, m.keys.NextInstrument):
		m.cycleInstrument(1)

	case key.Matches(msg, m.keys.PrevInstrument):
		m.cycleInstrument(-1)

	case key.Matches(msg, m.keys.PrevString):
		m.selectString(-1)

	case key.Matches(msg, m.keys.NextString):
		m.selectString(1)

	case key.Matches(msg, m.keys.TuneDown):
		m.retune(-1)

	case key.Matches(msg, m.keys.TuneUp):
		m.retune(1)

	case key.Matches(msg, m.keys.Preset):
		m.nextPreset()

	case key.Matches(msg, m.keys.Silence):
		m.board.Silence()
		m.status = "silenced"

	case key.Matches(msg, m.keys.Layout):
		m.showLayout = !m.showLayout
		m.help.ShowAll = m.showLayout

	default:
		return false
	}
	return true
}

func (m *Model) cycleInstrument(delta int) {
	if m.voicer == nil {
		return
	}
	names := m.voicer.Instruments()
	if len(names) == 0 {
		return
	}
	cur := 0
	for i, n := range names {
		if n == m.voicer.Instrument() {
			cur = i
			break
		}
	}
	next := names[(cur+delta+len(names))%len(names)]
	if m.voicer.SetInstrument(next) {
		m.status = "instrument " + next
	}
}

func (m *Model) selectString(delta int) {
	n := len(m.board.Tuning())
	m.selected = (m.selected + delta + n) % n
	m.status = "tuning string " + m.board.Tuning()[m.selected].Name
}

func (m *Model) retune(delta int) {
	open := m.board.Tuning()[m.selected].Open + delta
	if open < 0 || open > 127 {
		return
	}
	if err := m.board.Retune(m.selected, delta); err != nil {
		m.log.Warn("tui: retune failed", "string", m.selected, "err", err)
		return
	}
	m.status = fmt.Sprintf("string %d tuned to %s", m.selected, chord.NameWithOctave(open))
}

func (m *Model) nextPreset() {
	presets := fretboard.Presets()
	cur := m.board.Tuning().Name()
	next := presets[0].Name
	for i, p := range presets {
		if p.Name == cur {
			next = presets[(i+1)%len(presets)].Name
			break
		}
	}
	if err := m.board.ApplyPreset(next); err != nil {
		m.log.Warn("tui: tuning preset failed", "tuning", next, "err", err)
		m.status = err.Error()
		return
	}
	m.status = "tuning " + next
}

// refresh takes a new snapshot, names its chord and publishes both.
func (m *Model) refresh() {
	m.snap = m.board.Snapshot()
	m.analysis = m.engine.Analyze(m.snap.Pitches())
	if m.publish != nil {
		m.publish(m.snap, m.analysis)
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
