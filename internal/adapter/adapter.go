// Package adapter binds a station's read/write surface to an external
// device addressing scheme. Control-system frameworks address each tank as
// a device named "<prefix>/<station>/<tank>"; the adapter resolves such
// names to tanks and exposes single-field attribute reads and commands,
// keeping the core free of any framework's registration model.
package adapter

import (
	"fmt"
	"strings"

	"github.com/san-kum/paintsim/internal/station"
)

// Device is the per-tank attribute/command surface. All reads reflect the
// most recently committed tick; all writes go through the station's staged
// command slots.
type Device struct {
	name string // full device name as addressed externally
	tank string
	st   *station.Station
}

// Bind resolves a device name to a tank of the station. The tank is
// identified by the last path segment, so "epfl/station1/cyan" and plain
// "cyan" both address the cyan tank.
func Bind(st *station.Station, deviceName string) (*Device, error) {
	segs := strings.Split(deviceName, "/")
	tank := segs[len(segs)-1]
	if _, err := st.TankState(tank); err != nil {
		return nil, fmt.Errorf("adapter: bind %q: %w", deviceName, err)
	}
	return &Device{name: deviceName, tank: tank, st: st}, nil
}

// BindAll returns one device per tank, named "<prefix>/<tank>".
func BindAll(st *station.Station, prefix string) []*Device {
	devices := make([]*Device, 0, len(st.TankNames()))
	for _, tank := range st.TankNames() {
		d, _ := Bind(st, prefix+"/"+tank)
		devices = append(devices, d)
	}
	return devices
}

func (d *Device) Name() string { return d.name }
func (d *Device) Tank() string { return d.tank }

// IsMixer reports whether this device addresses the mixing tank.
func (d *Device) IsMixer() bool { return d.tank == station.MixerName }

func (d *Device) state() station.TankState {
	ts, _ := d.st.TankState(d.tank)
	return ts
}

// Level reads the fill level attribute, 0 (empty) to 1 (full).
func (d *Device) Level() float64 { return d.state().Level }

// Flow reads the realized outflow attribute in liters per second.
func (d *Device) Flow() float64 { return d.state().Outflow }

// Color reads the paint color attribute as "#rrggbb".
func (d *Device) Color() string { return d.state().Color }

// Valve reads back the commanded valve opening.
func (d *Device) Valve() float64 {
	v, _ := d.st.Valve(d.tank)
	return v
}

// SetValve stages a valve opening in [0, 1], applied at the next tick.
func (d *Device) SetValve(opening float64) error {
	return d.st.SetValve(d.tank, opening)
}

// Fill restocks the tank to full and returns the new level.
func (d *Device) Fill() (float64, error) {
	return d.st.Fill(d.tank, 1.0)
}

// Flush empties the tank and returns the new level.
func (d *Device) Flush() (float64, error) {
	return d.st.Flush(d.tank)
}

// StartPump switches the mixer pump on. Only valid on the mixer device.
func (d *Device) StartPump() error {
	if !d.IsMixer() {
		return fmt.Errorf("%w: %q", station.ErrNotMixer, d.name)
	}
	d.st.SetPump(true)
	return nil
}

// StopPump switches the mixer pump off. Only valid on the mixer device.
func (d *Device) StopPump() error {
	if !d.IsMixer() {
		return fmt.Errorf("%w: %q", station.ErrNotMixer, d.name)
	}
	d.st.SetPump(false)
	return nil
}

// PumpOn reads back the commanded pump state. Only meaningful on the mixer.
func (d *Device) PumpOn() bool {
	return d.IsMixer() && d.st.PumpOn()
}
