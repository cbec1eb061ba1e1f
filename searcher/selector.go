package searcher

import (
	"tetris/experiments/metrics"
	"tetris/game"
)

type Option func(s *Selector)

// Selector picks placements by maximizing a linear heuristic over the state a
// placement leads to.
type Selector struct {
	plies     int
	threshold int
	metrics   metrics.Collector
}

// WithPlies selects one-ply (1) or two-ply (2) search.
func WithPlies(plies int) Option {
	return func(s *Selector) {
		if plies == 1 || plies == 2 {
			s.plies = plies
		}
	}
}

func WithThreshold(height int) Option {
	return func(s *Selector) {
		if height >= 0 {
			s.threshold = height
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Selector) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func NewSelector(options ...Option) *Selector {
	s := &Selector{ // Default values
		plies:     1,
		threshold: LookAheadHeight,
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Selector) Plies() int {
	return s.plies
}

// PickMove returns the best non-losing placement for the current piece of state,
// or ErrNoMove when there is none. Ties keep the earliest move in legal move order.
// state is not modified.
func (s *Selector) PickMove(state *game.State, weights []float64) (game.Move, error) {
	if s.plies == 2 {
		m, err := s.twoPly(state, weights)
		if err == nil {
			return m, nil
		}
		// No two-placement continuation survives, but a single placement may
	}
	return s.onePly(state, weights)
}

func (s *Selector) onePly(state *game.State, weights []float64) (game.Move, error) {
	escalate := state.HighestColumn() > s.threshold
	if escalate {
		s.metrics.AddLookAhead()
	}

	var best game.Move
	var bestUtility float64
	found := false
	for _, m := range state.LegalMoves() {
		next := state.Clone()
		next.Play(m)
		if next.IsTerminal() {
			continue
		}

		var utility float64
		if escalate {
			utility = s.lookAhead(state, &next, weights)
		} else {
			utility = Utility(weights, next.Features(), 0)
		}
		if !found || utility > bestUtility {
			best, bestUtility, found = m, utility, true
		}
	}

	if !found {
		return game.Move{}, ErrNoMove
	}
	return best, nil
}

// lookAhead sums, over every piece that could come after next, the best utility
// achievable by placing it. A piece whose placements all lose adds nothing.
func (s *Selector) lookAhead(old, next *game.State, weights []float64) float64 {
	prior := next.RowsCleared() - old.RowsCleared()

	total := 0.0
	for piece := 0; piece < next.Geometry().NumPieces(); piece++ {
		hypothetical := next.Clone()
		hypothetical.SetPiece(piece)
		if utility, ok := bestUtility(&hypothetical, weights, prior); ok {
			total += utility
		}
	}
	return total
}

// bestUtility is the highest utility over the non-losing placements of state's
// current piece, and false when there is none.
func bestUtility(state *game.State, weights []float64, prior int) (float64, bool) {
	best := 0.0
	found := false
	for _, m := range state.LegalMoves() {
		next := state.Clone()
		next.Play(m)
		if next.IsTerminal() {
			continue
		}
		utility := Utility(weights, next.Features(), prior)
		if !found || utility > best {
			best, found = utility, true
		}
	}
	return best, found
}

// twoPly scores each placement by the best placement of the piece actually drawn
// after it. Once that intermediate stack is tall, the score is the two-piece look
// ahead from the intermediate state instead, which does not depend on the second
// placement.
func (s *Selector) twoPly(state *game.State, weights []float64) (game.Move, error) {
	var best game.Move
	var bestUtility float64
	found := false
	for _, m := range state.LegalMoves() {
		cs := state.Clone()
		cs.Play(m)
		if cs.IsTerminal() {
			continue
		}

		escalate := cs.HighestColumn() > s.threshold
		if escalate {
			s.metrics.AddLookAhead()
		}
		var ahead float64
		aheadDone := false

		for _, n := range cs.LegalMoves() {
			css := cs.Clone()
			css.Play(n)
			if css.IsTerminal() {
				continue
			}

			var utility float64
			if escalate {
				if !aheadDone {
					ahead, aheadDone = s.lookAheadTwo(state, &cs, weights), true
				}
				utility = ahead
			} else {
				utility = Utility(weights, css.Features(), 0)
			}
			if !found || utility > bestUtility {
				best, bestUtility, found = m, utility, true
			}
		}
	}

	if !found {
		return game.Move{}, ErrNoMove
	}
	return best, nil
}

// lookAheadTwo extends lookAhead by one more placement: for every hypothetical
// piece after cs it keeps the best utility over two consecutive placements, the
// second being whatever piece follows. Rows count from old onwards.
func (s *Selector) lookAheadTwo(old, cs *game.State, weights []float64) float64 {
	total := 0.0
	for piece := 0; piece < cs.Geometry().NumPieces(); piece++ {
		hypothetical := cs.Clone()
		hypothetical.SetPiece(piece)

		best := 0.0
		found := false
		for _, m := range hypothetical.LegalMoves() {
			ahead := hypothetical.Clone()
			ahead.Play(m)
			if ahead.IsTerminal() {
				continue
			}
			utility, ok := bestUtility(&ahead, weights, ahead.RowsCleared()-old.RowsCleared())
			if ok && (!found || utility > best) {
				best, found = utility, true
			}
		}
		if found {
			total += best
		}
	}
	return total
}
