package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chase3718/fretkeys/fretboard"
)

type keyMap struct {
	Strum          key.Binding
	Sustain        key.Binding
	OctaveUp       key.Binding
	OctaveDown     key.Binding
	NextInstrument key.Binding
	PrevInstrument key.Binding
	PrevString     key.Binding
	NextString     key.Binding
	TuneDown       key.Binding
	TuneUp         key.Binding
	Preset         key.Binding
	Silence        key.Binding
	Layout         key.Binding
	Quit           key.Binding
}

func bind(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

func defaultKeys() keyMap {
	return keyMap{
		Strum:          key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "strum")),
		Sustain:        bind("sustain", "enter"),
		OctaveUp:       bind("octave up", "up"),
		OctaveDown:     bind("octave down", "down"),
		NextInstrument: bind("next instrument", "tab"),
		PrevInstrument: bind("prev instrument", "shift+tab"),
		PrevString:     bind("prev string", "left"),
		NextString:     bind("next string", "right"),
		TuneDown:       bind("tune down", "-"),
		TuneUp:         bind("tune up", "="),
		Preset:         bind("next tuning", "ctrl+t"),
		Silence:        bind("silence", "backspace"),
		Layout:         bind("layout", "?"),
		Quit:           bind("quit", "esc", "ctrl+c"),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Strum, k.Sustain, k.OctaveUp, k.NextInstrument, k.Layout, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Strum, k.Sustain, k.Silence},
		{k.OctaveUp, k.OctaveDown, k.NextInstrument, k.PrevInstrument},
		{k.PrevString, k.NextString, k.TuneDown, k.TuneUp, k.Preset},
		{k.Layout, k.Quit},
	}
}

// fretKey returns the layout key for a single printable key press. Letters
// are folded to lower case so caps lock still plays.
func fretKey(msg tea.KeyMsg) (fretboard.KeyID, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return "", false
	}
	r := msg.Runes[0]
	if !unicode.IsPrint(r) {
		return "", false
	}
	return fretboard.KeyID(strings.ToLower(string(r))), true
}
