package experiments

import (
	"context"
	"errors"
	"fmt"
	"math"
	"tetris/engine"
	"tetris/evaluation"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/genetic"
	"tetris/searcher"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"
)

// Config is everything needed to run one search.
type Config struct {
	Evolution genetic.Config
	Workers   int
	Plies     int
	MaxPieces int    // 0 plays every trial until it is lost
	OutDir    string // Reports go to a timestamped folder under it
}

type Result struct {
	Best []float64
	Dir  string // Where the reports were written
}

// RunEvolution wires a simulator, a worker pool and a report writer around the
// evolutionary driver and runs it to completion or until ctx is done. A zero seed
// is replaced by a fresh one from the system entropy.
func RunEvolution(ctx context.Context, config Config) (Result, error) {
	if config.Workers < 1 {
		return Result{}, fmt.Errorf("need at least one worker, got %d", config.Workers)
	}
	if config.Evolution.Seed == 0 {
		config.Evolution.Seed = frand.Uint64n(math.MaxUint64) + 1
	}

	writer, err := metrics.NewWriter(config.OutDir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create report writer: %w", err)
	}

	collector := metrics.NewCollector()
	selector := searcher.NewSelector(searcher.WithPlies(config.Plies), searcher.WithMetrics(collector))
	simulator := engine.NewSimulator(
		game.NewStandardGeometry(),
		selector,
		engine.WithMaxPieces(config.MaxPieces),
		engine.WithMetrics(collector),
	)
	coordinator := evaluation.NewCoordinator(config.Workers, simulator, evaluation.WithMetrics(collector))

	driver, err := genetic.NewDriver(config.Evolution, coordinator, writer, genetic.WithMetrics(collector, coordinator.Workers()))
	if err != nil {
		return Result{}, err
	}

	err = coordinator.Start(ctx)
	if err != nil {
		return Result{}, err
	}
	defer coordinator.Close()

	log.Info().Msgf("starting evolution with seed %d, %d workers and %d-ply search, writing to %s",
		config.Evolution.Seed, config.Workers, selector.Plies(), writer.Dir())

	best, err := driver.Run(ctx)
	result := Result{Best: best, Dir: writer.Dir()}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		log.Info().Msg("evolution stopped before its iteration budget")
	} else if err != nil {
		return result, fmt.Errorf("evolution failed: %w", err)
	}

	closeErr := coordinator.Close()
	if closeErr != nil {
		return result, fmt.Errorf("failed to stop workers: %w", closeErr)
	}

	log.Info().Msgf("completed evolution, best weights %v", best)
	return result, err
}
