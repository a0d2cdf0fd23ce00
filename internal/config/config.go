package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/paintsim/internal/station"
)

const (
	DefaultDt              = 1.0
	DefaultTicks           = 60
	DefaultSourceCapacity  = 100.0
	DefaultSourceDischarge = 2.0
	DefaultMixerCapacity   = 500.0
	DefaultMixerDischarge  = 2.0
	DefaultPumpRate        = 5.0
)

// ErrInvalid marks a configuration the simulation must refuse to start on.
var ErrInvalid = errors.New("config: invalid configuration")

type TankConfig struct {
	Capacity  float64 `yaml:"capacity"`
	Discharge float64 `yaml:"discharge"`
	Level     float64 `yaml:"level"` // initial fill fraction
}

type MixerConfig struct {
	Capacity  float64 `yaml:"capacity"`
	Discharge float64 `yaml:"discharge"`
	PumpRate  float64 `yaml:"pump_rate"`
}

type Config struct {
	Station string             `yaml:"station"`
	Dt      float64            `yaml:"dt"`
	Ticks   int                `yaml:"ticks"`
	Source  TankConfig         `yaml:"source"` // shared by the five source tanks
	Mixer   MixerConfig        `yaml:"mixer"`
	Valves  map[string]float64 `yaml:"valves"` // initial valve openings by tank name
	PumpOn  bool               `yaml:"pump_on"`
}

func DefaultConfig() *Config {
	return &Config{
		Station: "station1",
		Dt:      DefaultDt,
		Ticks:   DefaultTicks,
		Source: TankConfig{
			Capacity:  DefaultSourceCapacity,
			Discharge: DefaultSourceDischarge,
			Level:     1.0,
		},
		Mixer: MixerConfig{
			Capacity:  DefaultMixerCapacity,
			Discharge: DefaultMixerDischarge,
			PumpRate:  DefaultPumpRate,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects malformed station parameters. These are fatal: a
// station must not start from a config that fails here.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	}
	if c.Source.Capacity <= 0 || c.Mixer.Capacity <= 0 {
		return fmt.Errorf("%w: capacities must be positive", ErrInvalid)
	}
	if c.Source.Discharge <= 0 || c.Mixer.Discharge <= 0 {
		return fmt.Errorf("%w: discharge coefficients must be positive", ErrInvalid)
	}
	if c.Mixer.PumpRate < 0 {
		return fmt.Errorf("%w: pump rate must be non-negative", ErrInvalid)
	}
	if c.Source.Level < 0 || c.Source.Level > 1 {
		return fmt.Errorf("%w: initial level %g outside [0, 1]", ErrInvalid, c.Source.Level)
	}
	for name, v := range c.Valves {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: valve %q opening %g outside [0, 1]", ErrInvalid, name, v)
		}
	}
	return nil
}

// StationParams maps the config onto station parameters.
func (c *Config) StationParams() station.Params {
	return station.Params{
		Name:            c.Station,
		SourceCapacity:  c.Source.Capacity,
		SourceDischarge: c.Source.Discharge,
		SourceLevel:     c.Source.Level,
		MixerCapacity:   c.Mixer.Capacity,
		MixerDischarge:  c.Mixer.Discharge,
		PumpRate:        c.Mixer.PumpRate,
	}
}

// Apply stages the config's initial valve and pump commands on a station.
func (c *Config) Apply(st *station.Station) error {
	for name, v := range c.Valves {
		if err := st.SetValve(name, v); err != nil {
			return err
		}
	}
	st.SetPump(c.PumpOn)
	return nil
}
