package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chase3718/fretkeys/api"
	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/config"
	"github.com/chase3718/fretkeys/fretboard"
	"github.com/chase3718/fretkeys/midi"
	"github.com/chase3718/fretkeys/rig"
	"github.com/chase3718/fretkeys/synth"
	"github.com/chase3718/fretkeys/tui"
)

// app is everything a play session owns.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	board    *fretboard.Board
	engine   *chord.Engine
	voicer   fretboard.Voicer
	store    *api.Store
	output   *midi.Output
	recorder *midi.Recorder
	closers  []io.Closer
}

func runPlay(cmd *cobra.Command, configPath string, pf playFlags) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, pf); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logFile, err := openLogFile(pf.logFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := initLogger(logFile, pf.debug)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.run(ctx)
}

// openLogFile opens path for appending, defaulting to fretkeys.log in the
// config directory.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
		path = filepath.Join(dir, "fretkeys.log")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// newApp opens the configured outputs and builds the board on top of them.
// Audio and MIDI failures are logged and that output is skipped; a rig that
// cannot be opened is an error since it was asked for by name.
func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log, engine: chord.New(nil), store: api.NewStore()}

	layout, err := fretboard.NewLayout(cfg.KeyRows, cfg.Frets)
	if err != nil {
		return nil, err
	}
	tuning := make(fretboard.Tuning, len(cfg.Strings))
	for i, s := range cfg.Strings {
		tuning[i] = fretboard.String{Name: s.Name, Open: s.Open}
	}

	var sinks fretboard.Sinks

	if cfg.Synth.Enabled {
		s, err := synth.New(synth.Options{
			SampleRate: cfg.Synth.SampleRate,
			Buffer:     time.Duration(cfg.Synth.BufferMs) * time.Millisecond,
			Instrument: cfg.Synth.Instrument,
			Logger:     log,
		})
		if err != nil {
			log.Warn("synth: unavailable, continuing without audio", "err", err)
		} else {
			sinks = append(sinks, fretboard.NewTrack(s))
			a.voicer = s
			a.closers = append(a.closers, s)
		}
	}

	if cfg.MIDI.Enabled {
		out, err := midi.NewOutput(midi.Options{
			Channel:    uint8(cfg.MIDI.Channel),
			Velocity:   uint8(cfg.Velocity),
			Instrument: cfg.MIDI.Instrument,
			Preferred:  cfg.MIDI.Preferred,
			Excluded:   cfg.MIDI.Excluded,
			Rescan:     time.Duration(cfg.MIDI.RescanMs) * time.Millisecond,
			Logger:     log,
		})
		if err != nil {
			log.Warn("midi: unavailable, continuing without MIDI", "err", err)
		} else {
			sinks = append(sinks, fretboard.NewTrack(out))
			a.output = out
			a.voicer = out
			a.closers = append(a.closers, out)
		}
	}

	if cfg.RecordPath != "" {
		a.recorder = midi.NewRecorder(uint8(cfg.MIDI.Channel), uint8(cfg.Velocity))
		sinks = append(sinks, fretboard.NewTrack(a.recorder))
	}

	if cfg.Rig.Port != "" {
		port, err := rig.Open(cfg.Rig.Port, cfg.Rig.Baud, log)
		if err != nil {
			a.close()
			return nil, err
		}
		r, err := rig.New(port, len(tuning), rig.Options{Duration: byte(cfg.Rig.Duration), Logger: log})
		if err != nil {
			port.Close()
			a.close()
			return nil, err
		}
		sinks = append(sinks, r)
		a.closers = append(a.closers, r)
	}

	if len(sinks) == 0 {
		sinks = append(sinks, fretboard.LogSink{Logger: log})
	}

	a.board, err = fretboard.NewBoard(layout, tuning, sinks, fretboard.Options{
		Sustain: cfg.Sustain,
		Octave:  cfg.Octave,
		Logger:  log,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// run drives the terminal UI until the user quits or ctx is cancelled.
func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if a.output != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.output.Run(ctx)
		}()
	}
	if a.cfg.HTTPAddr != "" {
		h := api.NewHandler(a.store, a.engine, a.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := api.Serve(ctx, a.cfg.HTTPAddr, h, a.log); err != nil {
				a.log.Error("api: stopped", "err", err)
			}
		}()
	}

	m := tui.New(tui.Options{
		Board:        a.board,
		Engine:       a.engine,
		Voicer:       a.voicer,
		ReleaseAfter: time.Duration(a.cfg.ReleaseAfterMs) * time.Millisecond,
		FrameRate:    a.cfg.FrameRate,
		Publish:      a.store.Publish,
		Logger:       a.log,
	})
	a.log.Info("fretkeys: started", "tuning", a.board.Tuning().Name(), "sustain", a.cfg.Sustain)

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	a.board.Silence()
	cancel()
	wg.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// close writes the recording and releases every output.
func (a *app) close() {
	if a.recorder != nil && a.recorder.Len() > 0 {
		if err := a.recorder.WriteFile(a.cfg.RecordPath); err != nil {
			a.log.Error("record: write failed", "path", a.cfg.RecordPath, "err", err)
		} else {
			a.log.Info("record: saved", "path", a.cfg.RecordPath, "events", a.recorder.Len())
		}
		a.recorder = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}
