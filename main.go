package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"tetris/experiments"
	"tetris/genetic"
	"tetris/meta"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	population := flag.Int("population", meta.POPULATION_SIZE, "Candidates kept after every selection")
	crossover := flag.Int("crossover", meta.CROSSOVER_PCT, "Crossover children per generation, in percent of the population")
	mutation := flag.Int("mutation", meta.MUTATION_PCT, "Mutants per generation, in percent of the population")
	iterations := flag.Int("iterations", meta.ITERATIONS, "Generations after the initial one")
	trials := flag.Int("trials", meta.TRIALS_PER_CANDIDATE, "Games played to score a candidate")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of goroutines playing games")
	plies := flag.Int("plies", 1, "Search depth of the move selector, 1 or 2")
	seed := flag.Uint64("seed", 0, "Seed for trial games and the search, 0 for a random one")
	maxPieces := flag.Int("max-pieces", 0, "Piece budget per game, 0 plays until the game is lost")
	out := flag.String("out", "results", "Directory for the generation reports")
	debug := flag.Bool("debug", false, "Log every trial")
	throughput := flag.Bool("throughput", false, "Measure trial throughput for growing worker counts instead of evolving")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	config := experiments.Config{
		Evolution: genetic.Config{
			PopulationSize:     *population,
			CrossoverPct:       *crossover,
			MutationPct:        *mutation,
			NumFeatures:        meta.NUM_FEATURES,
			Iterations:         *iterations,
			TrialsPerCandidate: *trials,
			Seed:               *seed,
		},
		Workers:   *workers,
		Plies:     *plies,
		MaxPieces: *maxPieces,
		OutDir:    *out,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *throughput {
		counts := []int{}
		for w := 1; w < *workers; w *= 2 {
			counts = append(counts, w)
		}
		counts = append(counts, *workers)
		_, err := experiments.RunThroughputExperiment(ctx, counts, 8*(*workers), *maxPieces, *out)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("throughput-experiment-aborted")
		}
		return
	}

	result, err := experiments.RunEvolution(ctx, config)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("evolution-aborted")
	}
	log.Info().Str("reports", result.Dir).Floats64("best", result.Best).Msg("evolution-finished")
}
