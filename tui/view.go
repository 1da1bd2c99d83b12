package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/fretboard"
)

var (
	amber     = lipgloss.Color("#FFB000")
	wood      = lipgloss.Color("#8B5A2B")
	silver    = lipgloss.Color("#C0C0C0")
	dim       = lipgloss.Color("#666666")
	ringGreen = lipgloss.Color("#39FF14")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(amber).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(silver)

	selectedStyle = lipgloss.NewStyle().
			Foreground(amber).
			Bold(true)

	soundingStyle = lipgloss.NewStyle().
			Foreground(ringGreen).
			Bold(true)

	heldStyle = lipgloss.NewStyle().
			Foreground(amber)

	keyStyle = lipgloss.NewStyle().
			Foreground(dim)

	neckStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(wood).
			Padding(0, 1)

	chordStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ringGreen).
			Padding(0, 2).
			MarginLeft(1)

	chordNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ringGreen)

	statusStyle = lipgloss.NewStyle().
			Foreground(amber).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1)
)

const cellWidth = 3

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("fretkeys"))
	b.WriteString(" ")
	b.WriteString(m.headerView())
	b.WriteString("\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.neckView(), m.chordView())
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.notesView())

	if m.showLayout {
		b.WriteString("\n")
		b.WriteString(m.layoutView())
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) headerView() string {
	inst := "-"
	if m.voicer != nil {
		inst = m.voicer.Instrument()
	}
	return headerStyle.Render(fmt.Sprintf("sustain: %s  octave: %+d  tuning: %s  instrument: %s",
		onOff(m.snap.Sustain), m.snap.Octave, m.snap.Tuning, inst))
}

func (m Model) neckView() string {
	layout := m.board.Layout()
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", 5))
	for f := 0; f < layout.Frets(); f++ {
		b.WriteString(keyStyle.Render(fmt.Sprintf("%-*d", cellWidth, f)))
	}
	b.WriteString("\n")

	for s, st := range m.snap.Strings {
		label := fmt.Sprintf("%-3s", st.Name)
		if s == m.selected {
			label = selectedStyle.Render(label)
		}
		b.WriteString(label)
		b.WriteString("| ")
		for f := 0; f < layout.Frets(); f++ {
			b.WriteString(m.cell(layout, st, s, f))
		}
		if s < len(m.snap.Strings)-1 {
			b.WriteString("\n")
		}
	}
	return neckStyle.Render(b.String())
}

func (m Model) cell(layout *fretboard.Layout, st fretboard.StringState, s, f int) string {
	pad := func(x string) string { return x + strings.Repeat(" ", cellWidth-1) }
	switch {
	case st.Sounding != nil && st.Sounding.Fret == f:
		return soundingStyle.Render(pad("●"))
	case m.snap.IsHeld(s, f):
		return heldStyle.Render(pad("○"))
	}
	k, ok := layout.Key(fretboard.Position{String: s, Fret: f})
	if !ok {
		return pad(" ")
	}
	return keyStyle.Render(pad(string(k)))
}

// chordPanel returns the chord panel lines for an analysis.
func chordPanel(a chord.Analysis) []string {
	switch {
	case a.Count == 0:
		return []string{"(press keys to play)"}
	case a.Chord != nil:
		return []string{
			chordNameStyle.Render(a.Chord.Name),
			"root: " + a.Chord.Root,
			"notes: " + strings.Join(a.Names, " "),
		}
	case a.Count == 1:
		return []string{"single note", "notes: " + strings.Join(a.Names, " ")}
	default:
		return []string{
			fmt.Sprintf("%d notes (no chord)", a.Count),
			"notes: " + strings.Join(a.Names, " "),
		}
	}
}

func (m Model) chordView() string {
	return chordStyle.Render(strings.Join(chordPanel(m.analysis), "\n"))
}

func (m Model) notesView() string {
	var lines []string
	for _, st := range m.snap.Strings {
		if st.Sounding == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s fret %d: %s (%.1f Hz)",
			st.Name, st.Sounding.Fret, chord.NameWithOctave(st.Sounding.Pitch), chord.Frequency(st.Sounding.Pitch)))
	}
	if len(lines) == 0 {
		return ""
	}
	return headerStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) layoutView() string {
	var b strings.Builder
	b.WriteString("key layout (row = string, column = fret)\n")
	tuning := m.board.Tuning()
	for s, row := range m.board.Layout().Rows() {
		name := "?"
		if s < len(tuning) {
			name = tuning[s].Name
		}
		keys := make([]string, len(row))
		for i, k := range row {
			keys[i] = string(k)
		}
		fmt.Fprintf(&b, "%-3s %s\n", name, strings.Join(keys, " "))
	}
	return keyStyle.Render(b.String())
}
