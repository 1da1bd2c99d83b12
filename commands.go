package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/config"
	"github.com/chase3718/fretkeys/fretboard"
)

// playFlags are the flags of the play command. Flags left unset keep the
// config file's value.
type playFlags struct {
	debug   bool
	logFile string
	noSynth bool
	midi    bool
	rig     string
	baud    int
	http    string
	record  string
	sustain bool
	octave  int
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		pf         playFlags
	)

	root := &cobra.Command{
		Use:   "fretkeys",
		Short: "Play your keyboard like a four-string guitar",
		Long: `fretkeys turns the computer keyboard into a fretted instrument.

Each of the four letter rows is a string (1-0 is G, q-p is D, a-; is A,
z-/ is E) and the column is the fret. The highest fret held on a string
sounds, and the chord formed by all sounding strings is named live.

Examples:
  fretkeys
  fretkeys play --midi --record session.mid
  fretkeys chord C E G
  fretkeys layout`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, configPath, pf)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/fretkeys/config.json)")

	play := &cobra.Command{
		Use:   "play",
		Short: "Run the instrument in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, configPath, pf)
		},
	}
	addPlayFlags(root, &pf)
	addPlayFlags(play, &pf)

	var asJSON bool
	chordCmd := &cobra.Command{
		Use:   "chord <note|pitch>...",
		Short: "Name the chord formed by notes (C4, Eb, 67)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChord(cmd, args, asJSON)
		},
	}
	chordCmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the key layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return printLayout(cmd, cfg)
		},
	}

	tuningsCmd := &cobra.Command{
		Use:   "tunings",
		Short: "List tuning presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printTunings(cmd)
		},
	}

	var force bool
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(cmd, configPath, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing config")
	configCmd.AddCommand(initCmd)

	root.AddCommand(play, chordCmd, layoutCmd, tuningsCmd, configCmd)
	return root
}

func addPlayFlags(cmd *cobra.Command, pf *playFlags) {
	f := cmd.Flags()
	f.BoolVar(&pf.debug, "debug", false, "debug logging with source locations")
	f.StringVar(&pf.logFile, "log-file", "", "log file (default fretkeys.log in the config dir)")
	f.BoolVar(&pf.noSynth, "no-synth", false, "disable the built-in synth")
	f.BoolVar(&pf.midi, "midi", false, "send notes to a MIDI output port")
	f.StringVar(&pf.rig, "rig", "", "serial device of a fret rig")
	f.IntVar(&pf.baud, "baud", 0, "fret rig baud rate")
	f.StringVar(&pf.http, "http", "", "serve the JSON API on this address (e.g. :8080)")
	f.StringVar(&pf.record, "record", "", "record the session to this .mid file")
	f.BoolVar(&pf.sustain, "sustain", true, "start in sustain mode")
	f.IntVar(&pf.octave, "octave", 0, "starting octave offset (-3..3)")
}

// loadConfig reads path, or the default config path when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// applyFlags overlays the flags the user actually set onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, pf playFlags) error {
	f := cmd.Flags()
	if pf.noSynth {
		cfg.Synth.Enabled = false
	}
	if pf.midi {
		cfg.MIDI.Enabled = true
	}
	if pf.rig != "" {
		cfg.Rig.Port = pf.rig
	}
	if f.Changed("baud") {
		cfg.Rig.Baud = pf.baud
	}
	if pf.http != "" {
		cfg.HTTPAddr = pf.http
	}
	if pf.record != "" {
		cfg.RecordPath = pf.record
	}
	if f.Changed("sustain") {
		cfg.Sustain = pf.sustain
	}
	if f.Changed("octave") {
		cfg.Octave = pf.octave
	}
	return cfg.Validate()
}

func runChord(cmd *cobra.Command, args []string, asJSON bool) error {
	pitches := make([]int, 0, len(args))
	for _, a := range args {
		p, err := chord.ParseNote(a)
		if err != nil {
			return err
		}
		pitches = append(pitches, p)
	}
	a := chord.New(nil).Analyze(pitches)

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	if a.Chord == nil {
		fmt.Fprintf(out, "no chord (%s)\n", strings.Join(a.NamesWithOctave, " "))
		return nil
	}
	fmt.Fprintf(out, "%s\n", a.Chord.Name)
	fmt.Fprintf(out, "root:  %s\n", a.Chord.Root)
	fmt.Fprintf(out, "notes: %s\n", strings.Join(a.NamesWithOctave, " "))
	return nil
}

func printLayout(cmd *cobra.Command, cfg *config.Config) error {
	layout, err := fretboard.NewLayout(cfg.KeyRows, cfg.Frets)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-4s", "")
	for f := 0; f < layout.Frets(); f++ {
		fmt.Fprintf(out, "%-3d", f)
	}
	fmt.Fprintln(out)
	for s, row := range layout.Rows() {
		name := "?"
		if s < len(cfg.Strings) {
			name = cfg.Strings[s].Name
		}
		fmt.Fprintf(out, "%-4s", name)
		for _, k := range row {
			fmt.Fprintf(out, "%-3s", k)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func printTunings(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	for _, p := range fretboard.Presets() {
		names := make([]string, len(p.Tuning))
		for i, s := range p.Tuning {
			names[i] = chord.NameWithOctave(s.Open)
		}
		fmt.Fprintf(out, "%-16s %s\n", p.Name, strings.Join(names, " "))
	}
}

func runConfigInit(cmd *cobra.Command, path string, force bool) error {
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return fmt.Errorf("config path: %w", err)
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := config.DefaultConfig().SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
