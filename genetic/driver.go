package genetic

import (
	"context"
	"errors"
	"fmt"
	"tetris/evaluation"
	"tetris/experiments/metrics"
	"tetris/game"
	"tetris/meta"
	"tetris/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var ErrInvalidConfig = errors.New("invalid evolution config")

type Config struct {
	PopulationSize     int
	CrossoverPct       int
	MutationPct        int
	NumFeatures        int
	Iterations         int
	TrialsPerCandidate int
	Seed               uint64 // Drives trial seeds and every random choice of the search
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:     meta.POPULATION_SIZE,
		CrossoverPct:       meta.CROSSOVER_PCT,
		MutationPct:        meta.MUTATION_PCT,
		NumFeatures:        meta.NUM_FEATURES,
		Iterations:         meta.ITERATIONS,
		TrialsPerCandidate: meta.TRIALS_PER_CANDIDATE,
	}
}

func (c Config) Validate() error {
	switch {
	case c.PopulationSize < 2:
		return fmt.Errorf("%w: population size %d is below 2", ErrInvalidConfig, c.PopulationSize)
	case c.CrossoverPct < 0 || c.CrossoverPct > 100:
		return fmt.Errorf("%w: crossover rate %d%% is outside [0, 100]", ErrInvalidConfig, c.CrossoverPct)
	case c.MutationPct < 0 || c.MutationPct > 100:
		return fmt.Errorf("%w: mutation rate %d%% is outside [0, 100]", ErrInvalidConfig, c.MutationPct)
	case c.NumFeatures != game.NumFeatures:
		return fmt.Errorf("%w: %d features, the board measures %d", ErrInvalidConfig, c.NumFeatures, game.NumFeatures)
	case c.Iterations < 0:
		return fmt.Errorf("%w: negative iteration count %d", ErrInvalidConfig, c.Iterations)
	case c.TrialsPerCandidate < 1:
		return fmt.Errorf("%w: %d trials per candidate", ErrInvalidConfig, c.TrialsPerCandidate)
	}
	return nil
}

// Submitter schedules trials and waits for them. evaluation.Coordinator is the
// production Submitter.
type Submitter interface {
	Submit(trial evaluation.Trial) error
	AwaitIdle()
}

// Reporter receives every selected generation. metrics.Writer is the production
// Reporter.
type Reporter interface {
	Record(record metrics.GenerationRecord) error
}

type Option func(d *Driver)

func WithMetrics(collector metrics.Collector, workers int) Option {
	return func(d *Driver) {
		if collector != nil {
			d.metrics = collector
			d.workers = workers
		}
	}
}

// WithoutHandTuned starts from random candidates only.
func WithoutHandTuned() Option {
	return func(d *Driver) {
		d.handTuned = nil
	}
}

// Driver runs the generational search: initialize, then evaluate, select and vary
// until the iteration budget is spent.
type Driver struct {
	config     Config
	submitter  Submitter
	reporter   Reporter
	metrics    metrics.Collector
	workers    int
	handTuned  [][]float64
	rng        *rand.Rand
	seeds      []uint64 // Trial i of every candidate plays seeds[i]
	population Population
	nextID     int
}

func NewDriver(config Config, submitter Submitter, reporter Reporter, options ...Option) (*Driver, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}
	if submitter == nil || reporter == nil {
		return nil, errors.New("driver needs a submitter and a reporter")
	}

	d := &Driver{ // Default values
		config:    config,
		submitter: submitter,
		reporter:  reporter,
		metrics:   metrics.NewDummyCollector(),
		handTuned: HandTuned,
		rng:       rand.New(rand.NewSource(config.Seed)),
	}
	for _, option := range options {
		option(d)
	}

	d.seeds = make([]uint64, config.TrialsPerCandidate)
	for i := range d.seeds {
		d.seeds[i] = d.rng.Uint64()
	}
	return d, nil
}

func (d *Driver) Population() Population {
	return d.population
}

// Run searches until the iteration budget is spent and returns the best weights.
// When ctx is done it stops at the next barrier, without selecting the unfinished
// generation, and returns the best weights found so far with ctx's error.
func (d *Driver) Run(ctx context.Context) ([]float64, error) {
	d.metrics.Start(d.workers)
	err := d.initialize()
	if err != nil {
		return nil, err
	}
	d.submitter.AwaitIdle()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = d.selectAndReport(-1)
	if err != nil {
		return nil, err
	}

	for generation := 0; generation < d.config.Iterations; generation++ {
		d.metrics.Start(d.workers)
		err := d.vary()
		if err != nil {
			return d.best(), err
		}
		d.submitter.AwaitIdle()
		if err := ctx.Err(); err != nil {
			log.Info().Int("generation", generation).Msg("evolution-interrupted")
			return d.best(), err
		}
		err = d.selectAndReport(generation)
		if err != nil {
			return nil, err
		}
	}

	return d.best(), nil
}

func (d *Driver) best() []float64 {
	if len(d.population) == 0 {
		return nil
	}
	return d.population[0].Weights()
}

// initialize fills the population with the hand-tuned vectors and random ones and
// submits their trials.
func (d *Driver) initialize() error {
	d.population = make(Population, 0, d.config.PopulationSize)
	for _, weights := range d.handTuned {
		if len(d.population) == d.config.PopulationSize {
			break
		}
		d.population = append(d.population, d.newCandidate(weights))
	}
	for len(d.population) < d.config.PopulationSize {
		d.population = append(d.population, d.newCandidate(RandomWeights(d.rng, game.Polarity[:])))
	}
	log.Info().Msgf("evaluating %d initial candidates", len(d.population))

	return d.evaluate(d.population)
}

func (d *Driver) newCandidate(weights []float64) *Candidate {
	c := NewCandidate(d.nextID, weights)
	d.nextID++
	return c
}

func (d *Driver) evaluate(candidates []*Candidate) error {
	for _, c := range candidates {
		for _, seed := range d.seeds {
			err := d.submitter.Submit(evaluation.Trial{
				Seed:    seed,
				Weights: c.Weights(),
				Done:    c.Record,
			})
			if err != nil {
				return fmt.Errorf("failed to submit trial of candidate %d: %w", c.ID, err)
			}
		}
	}
	return nil
}

// vary breeds crossover children from distinct parents and mutants from distinct
// survivors, submits their trials and appends them to the population.
func (d *Driver) vary() error {
	survivors := len(d.population)

	children := make([]*Candidate, 0)
	for i := 0; i < d.config.CrossoverPct*d.config.PopulationSize/100; i++ {
		a := d.rng.Intn(survivors)
		b := d.rng.Intn(survivors)
		for b == a {
			b = d.rng.Intn(survivors)
		}
		weights := Crossover(d.rng, d.population[a].Weights(), d.population[b].Weights())
		children = append(children, d.newCandidate(weights))
	}

	subjects := make([]int, 0)
	for len(subjects) < min(d.config.MutationPct*d.config.PopulationSize/100, survivors) {
		subject := d.rng.Intn(survivors)
		if utils.FindIndex(subjects, subject) == -1 {
			subjects = append(subjects, subject)
		}
	}
	for _, subject := range subjects {
		weights := Mutate(d.rng, d.population[subject].Weights())
		children = append(children, d.newCandidate(weights))
	}

	log.Debug().Int("crossover", len(children)-len(subjects)).Int("mutation", len(subjects)).Msg("population-varied")
	d.population = append(d.population, children...)
	return d.evaluate(children)
}

// selectAndReport truncates the population and hands the generation to the
// reporter. A reporter failure is logged and otherwise ignored.
func (d *Driver) selectAndReport(generation int) error {
	population, err := d.population.Select(d.config.PopulationSize)
	if err != nil {
		return fmt.Errorf("generation %d: %w", generation, err)
	}
	d.population = population

	record := metrics.GenerationRecord{
		Generation:       generation,
		Best:             population[0].Score(),
		Worst:            population[len(population)-1].Score(),
		Weights:          population.Weights(),
		EvaluationMetric: d.metrics.Complete(),
	}
	log.Info().
		Int("generation", generation).
		Float64("best", record.Best).
		Float64("worst", record.Worst).
		Int("failures", record.Failures).
		Dur("duration", record.Duration).
		Msg("generation-complete")

	err = d.reporter.Record(record)
	if err != nil {
		log.Error().Err(err).Int("generation", generation).Msg("report-failed")
	}
	return nil
}
