package engine

import "errors"

// ErrSimulationFault marks a trial aborted by an internal fault. It is a failed
// trial, not a trial that scored zero.
var ErrSimulationFault = errors.New("simulation fault")

// Engine plays trials for the evaluation coordinator. Simulator is the production
// Engine.
type Engine interface {
	// Run plays one game from seed until it is lost or a piece budget runs out and
	// returns the rows cleared
	Run(seed uint64, weights []float64) (rows int, err error)
}
