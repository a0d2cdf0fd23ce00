// Package station holds the tank state of one paint-mixing station.
//
// A [Station] owns five fixed-color source tanks and one mixing tank wired
// into a fixed flow graph: all source outflow feeds the mixer, the mixer's
// outflow leaves the system. Collaborators interact through two surfaces:
//
//   - reads: [Station.Snapshot] and [Station.TankState], which always
//     reflect a fully committed tick;
//   - writes: [Station.SetValve] and [Station.SetPump], which stage a
//     commanded value applied at the next tick boundary, plus the immediate
//     maintenance operations [Station.Fill] and [Station.Flush].
//
// [Station.Advance] performs one tick; it is intended to be driven by a
// single stepper goroutine while any number of collaborators read snapshots
// and stage commands concurrently.
package station
