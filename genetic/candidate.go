package genetic

import (
	"errors"
	"sort"
	"sync/atomic"
)

// ErrEmptyPopulation means selection was left with no candidate at all.
var ErrEmptyPopulation = errors.New("population is empty after selection")

// Candidate is a weight vector together with the outcome of its trials. Trials
// report into it concurrently; everything else is owned by the driver.
type Candidate struct {
	ID       int
	weights  []float64
	total    atomic.Int64 // Rows cleared over successful trials
	trials   atomic.Int32 // Completed trials, failed ones included
	failures atomic.Int32
}

func NewCandidate(id int, weights []float64) *Candidate {
	return &Candidate{
		ID:      id,
		weights: append([]float64(nil), weights...),
	}
}

// Weights is shared with running trials and must not be modified.
func (c *Candidate) Weights() []float64 {
	return c.weights
}

// Record folds one trial outcome into the candidate. A failed trial is counted but
// adds nothing to the score.
func (c *Candidate) Record(rows int, err error) {
	if err != nil {
		c.failures.Add(1)
	} else {
		c.total.Add(int64(rows))
	}
	c.trials.Add(1)
}

func (c *Candidate) Total() int64 {
	return c.total.Load()
}

func (c *Candidate) Trials() int {
	return int(c.trials.Load())
}

func (c *Candidate) Failures() int {
	return int(c.failures.Load())
}

// Score is the mean reward of the successful trials, 0 without any.
func (c *Candidate) Score() float64 {
	succeeded := c.Trials() - c.Failures()
	if succeeded <= 0 {
		return 0
	}
	return float64(c.Total()) / float64(succeeded)
}

// Population is ordered best first after Select.
type Population []*Candidate

// Select sorts p by descending score, keeping insertion order among equal scores,
// and keeps the first size candidates.
func (p Population) Select(size int) (Population, error) {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Score() > p[j].Score()
	})
	if len(p) > size {
		// Release discarded candidates
		clear(p[size:])
		p = p[:size]
	}
	if len(p) == 0 {
		return nil, ErrEmptyPopulation
	}
	return p, nil
}

func (p Population) Weights() [][]float64 {
	weights := make([][]float64, len(p))
	for i, c := range p {
		weights[i] = c.Weights()
	}
	return weights
}
