package searcher

import (
	"errors"
	"tetris/game"
	"tetris/meta"
)

// LookAheadHeight is the stack height above which placements are judged by looking
// one piece ahead.
const LookAheadHeight = meta.LOOK_AHEAD_HEIGHT

// ErrNoMove reports that every legal placement of the current piece loses.
var ErrNoMove = errors.New("no legal non-losing move")

// Utility scores a state reached by a placement as the weighted sum of its features.
// priorRows adds rows cleared earlier in the same hypothetical line of play to the
// rows eliminated feature.
func Utility(weights []float64, f game.Features, priorRows int) float64 {
	v := f.Vector()
	v[game.RowsEliminated] += float64(priorRows)

	utility := 0.0
	for i, x := range v {
		utility += weights[i] * x
	}
	return utility
}
