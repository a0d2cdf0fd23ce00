package config

// Presets are ready-made station scenarios selectable by name.
var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"demo": {
		Station: "station1", Dt: 1.0, Ticks: 10,
		Source: TankConfig{Capacity: 100, Discharge: 2.0, Level: 1.0},
		Mixer:  MixerConfig{Capacity: 500, Discharge: 2.0, PumpRate: 5.0},
		Valves: map[string]float64{"cyan": 1.0},
	},
	"rainbow": {
		Station: "station1", Dt: 0.5, Ticks: 120,
		Source: TankConfig{Capacity: 100, Discharge: 2.0, Level: 1.0},
		Mixer:  MixerConfig{Capacity: 500, Discharge: 2.0, PumpRate: 5.0},
		Valves: map[string]float64{
			"cyan": 0.5, "magenta": 0.5, "yellow": 0.5, "black": 0.5, "white": 0.5,
		},
	},
	"flood": {
		Station: "station1", Dt: 1.0, Ticks: 30,
		Source: TankConfig{Capacity: 100, Discharge: 2.0, Level: 1.0},
		Mixer:  MixerConfig{Capacity: 50, Discharge: 2.0, PumpRate: 5.0},
		Valves: map[string]float64{
			"cyan": 1.0, "magenta": 1.0, "yellow": 1.0, "black": 1.0, "white": 1.0,
		},
	},
	"dispense": {
		Station: "station1", Dt: 0.5, Ticks: 240,
		Source: TankConfig{Capacity: 100, Discharge: 2.0, Level: 1.0},
		Mixer:  MixerConfig{Capacity: 500, Discharge: 2.0, PumpRate: 5.0},
		Valves: map[string]float64{"cyan": 0.6, "yellow": 0.6, "mixer": 1.0},
		PumpOn: true,
	},
}

// GetPreset returns the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the available preset names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
