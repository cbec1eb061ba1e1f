package engine

import (
	"errors"
	"fmt"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/searcher"

	"github.com/rs/zerolog/log"
)

type Option func(s *Simulator)

// Simulator plays trials in the calling goroutine. It holds no per-game state, so
// one Simulator can serve every worker at once.
type Simulator struct {
	geometry  game.Geometry
	selector  *searcher.Selector
	maxPieces int
	metrics   metrics.Collector
}

// WithMaxPieces ends a trial normally once this many pieces are placed.
func WithMaxPieces(pieces int) Option {
	return func(s *Simulator) {
		if pieces > 0 {
			s.maxPieces = pieces
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *Simulator) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func NewSimulator(geometry game.Geometry, selector *searcher.Selector, options ...Option) *Simulator {
	if geometry == nil || selector == nil {
		panic("simulator needs a geometry and a selector")
	}
	s := &Simulator{ // Default values
		geometry: geometry,
		selector: selector,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Run plays a fresh game seeded by seed, picking every placement with weights. A
// game with no non-losing placement left is over and still yields its rows. Panics
// raised while playing abort only this trial and come back as ErrSimulationFault.
func (s *Simulator) Run(seed uint64, weights []float64) (rows int, err error) {
	if len(weights) != game.NumFeatures {
		return 0, fmt.Errorf("%w: expected %d weights, got %d", ErrSimulationFault, game.NumFeatures, len(weights))
	}

	defer func() {
		if r := recover(); r != nil {
			rows = 0
			err = fmt.Errorf("%w: %v", ErrSimulationFault, r)
		}
	}()

	state := game.NewState(s.geometry, seed)
	for !state.IsTerminal() {
		if s.maxPieces > 0 && state.Turn() >= s.maxPieces {
			break
		}

		move, err := s.selector.PickMove(&state, weights)
		if errors.Is(err, searcher.ErrNoMove) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to pick move at turn %d: %w", state.Turn(), err)
		}
		state.Play(move)
	}

	s.metrics.AddPieces(state.Turn())
	log.Debug().Uint64("seed", seed).Int("pieces", state.Turn()).Int("rows", state.RowsCleared()).Msg("trial-finished")
	return state.RowsCleared(), nil
}
