package experiments

import (
	"context"
	"fmt"
	"tetris/engine"
	"tetris/evaluation"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/genetic"
	"tetris/searcher"
	"time"

	"github.com/rs/zerolog/log"
)

// RunThroughputExperiment plays the same batch of trials once per worker count and
// records how fast the pool gets through it. Every batch uses the first hand-tuned
// weights and seeds 1 to trials.
func RunThroughputExperiment(ctx context.Context, workerCounts []int, trials, maxPieces int, outDir string) ([]metrics.ThroughputRecord, error) {
	records := []metrics.ThroughputRecord{}
	for _, workers := range workerCounts {
		log.Info().Msgf("starting throughput run with %d workers...", workers)

		collector := metrics.NewCollector()
		simulator := engine.NewSimulator(
			game.NewStandardGeometry(),
			searcher.NewSelector(searcher.WithMetrics(collector)),
			engine.WithMaxPieces(maxPieces),
			engine.WithMetrics(collector),
		)
		coordinator := evaluation.NewCoordinator(workers, simulator, evaluation.WithMetrics(collector))
		err := coordinator.Start(ctx)
		if err != nil {
			return nil, err
		}

		collector.Start(coordinator.Workers())
		for seed := 1; seed <= trials; seed++ {
			err = coordinator.Submit(evaluation.Trial{Seed: uint64(seed), Weights: genetic.HandTuned[0]})
			if err != nil {
				break
			}
		}
		coordinator.AwaitIdle()
		metric := collector.Complete()
		closeErr := coordinator.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to submit trial: %w", err)
		}
		if closeErr != nil {
			return nil, closeErr
		}
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record := metrics.ThroughputRecord{EvaluationMetric: metric}
		if metric.Duration > 0 {
			record.TrialsPerSecond = float64(metric.Trials) / metric.Duration.Seconds()
		}
		records = append(records, record)
		log.Info().Msgf("completed %d trials with %d workers in %s", metric.Trials, workers, metric.Duration.Round(time.Millisecond))
	}

	writer, err := metrics.NewWriter(outDir)
	if err != nil {
		return records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	err = writer.WriteThroughputRecords(records)
	if err != nil {
		return records, fmt.Errorf("failed to store throughput records: %w", err)
	}
	log.Info().Msgf("stored throughput records in %s", writer.Dir())

	return records, nil
}
