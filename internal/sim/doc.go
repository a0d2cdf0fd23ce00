// Package sim drives a paint station at fixed time increments.
//
// The [Stepper] is the sole writer of simulation state: each tick latches
// the commanded valve and pump settings, computes every tank's outflow from
// the pre-tick snapshot, routes source outflow into the mixer and commits
// the result atomically. Observers and metrics see each committed tick.
//
// [Stepper.Run] paces ticks on wall-clock time for live operation;
// [Stepper.Collect] runs back-to-back ticks for deterministic headless
// runs. Both are safe to cancel at any tick boundary.
package sim
