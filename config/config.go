// Package config loads and saves the fretkeys settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StringConfig is one open string.
type StringConfig struct {
	Name string `json:"name"`
	Open int    `json:"open"`
}

// MIDIConfig defines the MIDI output.
type MIDIConfig struct {
	Enabled    bool     `json:"enabled"`
	Channel    int      `json:"channel"`
	Instrument string   `json:"instrument,omitempty"`
	Preferred  []string `json:"preferred,omitempty"`
	Excluded   []string `json:"excluded,omitempty"`
	RescanMs   int      `json:"rescanMs,omitempty"`
}

// SynthConfig defines the built-in synthesizer.
type SynthConfig struct {
	Enabled    bool   `json:"enabled"`
	Instrument string `json:"instrument,omitempty"`
	SampleRate int    `json:"sampleRate,omitempty"`
	BufferMs   int    `json:"bufferMs,omitempty"`
}

// RigConfig defines the serial fretting rig.
type RigConfig struct {
	Port     string `json:"port,omitempty"`
	Baud     int    `json:"baud,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Strings        []StringConfig `json:"strings"`
	KeyRows        []string       `json:"keyRows"`
	Frets          int            `json:"frets"`
	Sustain        bool           `json:"sustain"`
	Octave         int            `json:"octave"`
	Velocity       int            `json:"velocity"`
	ReleaseAfterMs int            `json:"releaseAfterMs"`
	FrameRate      int            `json:"frameRate"`
	MIDI           MIDIConfig     `json:"midi"`
	Synth          SynthConfig    `json:"synth"`
	Rig            RigConfig      `json:"rig,omitempty"`
	HTTPAddr       string         `json:"httpAddr,omitempty"`
	RecordPath     string         `json:"recordPath,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Strings: []StringConfig{
			{Name: "G", Open: 55},
			{Name: "D", Open: 50},
			{Name: "A", Open: 45},
			{Name: "E", Open: 40},
		},
		KeyRows:        []string{"1234567890", "qwertyuiop", "asdfghjkl;", "zxcvbnm,./"},
		Frets:          10,
		Sustain:        true,
		Velocity:       100,
		ReleaseAfterMs: 600,
		FrameRate:      60,
		MIDI: MIDIConfig{
			Enabled:    false,
			Instrument: "Acoustic Guitar (steel)",
			Excluded:   []string{"Midi Through", "Through Port", "Dummy"},
			RescanMs:   1000,
		},
		Synth: SynthConfig{
			Enabled:    true,
			Instrument: "Pluck",
			SampleRate: 44100,
			BufferMs:   50,
		},
		Rig: RigConfig{
			Baud:     500000,
			Duration: 20,
		},
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fretkeys"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not
// found.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path over the defaults. Fields absent from
// the file keep their default values. A missing file yields the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Validate checks ranges and that the strings match the key rows.
func (c *Config) Validate() error {
	switch {
	case len(c.Strings) == 0:
		return errors.New("no strings")
	case len(c.Strings) != len(c.KeyRows):
		return fmt.Errorf("%d strings but %d key rows", len(c.Strings), len(c.KeyRows))
	case c.Frets < 1:
		return fmt.Errorf("frets %d must be at least 1", c.Frets)
	case c.Octave < -3 || c.Octave > 3:
		return fmt.Errorf("octave %d out of range -3..3", c.Octave)
	case c.Velocity < 1 || c.Velocity > 127:
		return fmt.Errorf("velocity %d out of range 1..127", c.Velocity)
	case c.MIDI.Channel < 0 || c.MIDI.Channel > 15:
		return fmt.Errorf("midi channel %d out of range 0..15", c.MIDI.Channel)
	case c.ReleaseAfterMs < 0:
		return fmt.Errorf("releaseAfterMs %d is negative", c.ReleaseAfterMs)
	case c.FrameRate < 1 || c.FrameRate > 240:
		return fmt.Errorf("frameRate %d out of range 1..240", c.FrameRate)
	}
	for i, s := range c.Strings {
		if s.Open < 0 || s.Open > 127 {
			return fmt.Errorf("string %d open pitch %d out of range 0..127", i, s.Open)
		}
	}
	return nil
}
