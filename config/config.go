package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults applied to omitted fields
const (
	DefaultTempo      = 120
	DefaultBasePitch  = 60 // C4
	DefaultSampleRate = 44100
	DefaultOutput     = "combined_output.mp3"
	DefaultBitrate    = "192k"
)

// Source describes one MIDI file to render: the sample that plays its
// notes, the fixed tempo to use for the whole file, and the MIDI pitch
// the sample recording represents. BasePitch is a pointer so that an
// explicit pitch 0 (C-1) is distinguishable from an omitted one.
type Source struct {
	MIDIPath   string `json:"midiPath"`
	SamplePath string `json:"samplePath"`
	TempoBPM   int    `json:"tempo,omitempty"`
	BasePitch  *uint8 `json:"pitch,omitempty"`
}

// Pitch returns the configured base pitch, or the default when omitted.
func (s Source) Pitch() uint8 {
	if s.BasePitch == nil {
		return DefaultBasePitch
	}
	return *s.BasePitch
}

// Config is the full render project: the sources to mix and the shared
// output settings.
type Config struct {
	Sources    []Source `json:"sources"`
	SampleRate int      `json:"sampleRate,omitempty"`
	Output     string   `json:"output,omitempty"`
	Bitrate    string   `json:"bitrate,omitempty"`
}

// Default returns a config with sensible defaults and no sources
func Default() *Config {
	return &Config{
		SampleRate: DefaultSampleRate,
		Output:     DefaultOutput,
		Bitrate:    DefaultBitrate,
	}
}

// Load reads a project file from disk, fills in defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyDefaults fills in zero-valued optional fields
func (c *Config) ApplyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Bitrate == "" {
		c.Bitrate = DefaultBitrate
	}
	for i := range c.Sources {
		if c.Sources[i].TempoBPM == 0 {
			c.Sources[i].TempoBPM = DefaultTempo
		}
	}
}

// Validate checks the config for values the renderer cannot work with
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	for i, src := range c.Sources {
		if src.MIDIPath == "" {
			return fmt.Errorf("source %d: missing midiPath", i)
		}
		if src.SamplePath == "" {
			return fmt.Errorf("source %d: missing samplePath", i)
		}
		if src.TempoBPM <= 0 {
			return fmt.Errorf("source %d: tempo must be positive, got %d", i, src.TempoBPM)
		}
		if src.BasePitch != nil && *src.BasePitch > 127 {
			return fmt.Errorf("source %d: pitch %d outside MIDI range 0-127", i, *src.BasePitch)
		}
	}
	return nil
}
