package station

import "errors"

// Command and configuration errors for the station write surface.
var (
	// ErrUnknownTank indicates a tank name not present in this station.
	ErrUnknownTank = errors.New("station: unknown tank")

	// ErrSetpointRange indicates a valve or level setpoint outside [0, 1].
	// The previously commanded value is retained.
	ErrSetpointRange = errors.New("station: setpoint out of range [0, 1]")

	// ErrNotRefillable indicates a Fill on a tank with no stock mixture
	// (the mixer only ever holds what the sources feed it).
	ErrNotRefillable = errors.New("station: tank has no stock mixture to fill from")

	// ErrNotMixer indicates a pump or output-valve command addressed to a
	// source tank.
	ErrNotMixer = errors.New("station: command only valid for the mixing tank")

	// ErrBadTimestep indicates a non-positive advance interval.
	ErrBadTimestep = errors.New("station: dt must be positive")
)
