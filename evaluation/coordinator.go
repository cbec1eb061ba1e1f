package evaluation

import (
	"context"
	"errors"
	"sync"
	"tetris/engine"
	"tetris/experiments/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotStarted = errors.New("coordinator not started")
	ErrClosed     = errors.New("coordinator closed")
)

// Trial is one game to play for a candidate. Done receives the outcome on the
// worker that played it, so it must be safe to call concurrently with other
// trials' callbacks.
type Trial struct {
	Seed    uint64
	Weights []float64
	Done    func(rows int, err error)
}

type Option func(c *Coordinator)

func WithMetrics(collector metrics.Collector) Option {
	return func(c *Coordinator) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

// WithQueueSize bounds how many submitted trials may wait for a worker before
// Submit blocks.
func WithQueueSize(size int) Option {
	return func(c *Coordinator) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// Coordinator runs trials on a fixed pool of workers and lets the submitter wait
// until everything submitted so far has finished.
type Coordinator struct {
	workers   int
	queueSize int
	runner    engine.Engine
	metrics   metrics.Collector

	mu      sync.RWMutex
	queue   chan Trial
	group   *errgroup.Group
	closed  bool
	pending sync.WaitGroup
}

func NewCoordinator(workers int, runner engine.Engine, options ...Option) *Coordinator {
	if workers < 1 {
		panic("coordinator needs at least one worker")
	}
	if runner == nil {
		panic("coordinator needs a runner")
	}
	c := &Coordinator{ // Default values
		workers:   workers,
		queueSize: 4 * workers,
		runner:    runner,
		metrics:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Workers is the size of the pool, for collectors that measure per-worker load.
func (c *Coordinator) Workers() int {
	return c.workers
}

// Start launches the workers. Once ctx is done, trials still queued are not
// played; they complete with the context's error instead.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.queue != nil {
		return errors.New("coordinator already started")
	}

	c.queue = make(chan Trial, c.queueSize)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		g.Go(func() error {
			for trial := range c.queue {
				c.play(ctx, trial)
			}
			return nil
		})
	}
	c.group = g

	log.Debug().Int("workers", c.workers).Msg("coordinator-started")
	return nil
}

func (c *Coordinator) play(ctx context.Context, trial Trial) {
	defer c.pending.Done()

	var rows int
	err := ctx.Err()
	if err == nil {
		rows, err = c.runner.Run(trial.Seed, trial.Weights)
	}

	if err != nil {
		c.metrics.AddFailure()
		log.Warn().Err(err).Uint64("seed", trial.Seed).Msg("trial-failed")
	} else {
		c.metrics.AddTrial()
	}
	if trial.Done != nil {
		trial.Done(rows, err)
	}
}

// Submit queues a trial for any free worker. It blocks only while the queue is
// full.
func (c *Coordinator) Submit(trial Trial) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if c.queue == nil {
		return ErrNotStarted
	}

	c.pending.Add(1)
	c.queue <- trial
	return nil
}

// AwaitIdle blocks until every trial submitted before the call has finished and
// its callback has returned. It must not overlap with Submit.
func (c *Coordinator) AwaitIdle() {
	c.pending.Wait()
}

// Close stops accepting trials, lets the workers finish what is queued and waits
// for them to exit.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.queue == nil {
		c.mu.Unlock()
		return nil
	}
	close(c.queue)
	c.mu.Unlock()

	err := c.group.Wait()
	log.Debug().Msg("coordinator-closed")
	return err
}
