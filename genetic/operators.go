package genetic

import (
	"golang.org/x/exp/rand"
)

// signedReal is uniform in (-1, 1).
func signedReal(rng *rand.Rand) float64 {
	v := rng.Float64()
	if rng.Intn(2) == 0 {
		return v
	}
	return -v
}

// RandomWeights draws every magnitude from [0, 10) and takes its sign from polarity.
func RandomWeights(rng *rand.Rand, polarity []float64) []float64 {
	weights := make([]float64, len(polarity))
	for i, sign := range polarity {
		v := signedReal(rng) * 10
		if v < 0 {
			v = -v
		}
		weights[i] = v * sign
	}
	return weights
}

// Crossover takes each gene from a or b on a fair coin.
func Crossover(rng *rand.Rand, a, b []float64) []float64 {
	if len(a) != len(b) {
		panic("parents differ in length")
	}
	child := append([]float64(nil), a...)
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = b[i]
		}
	}
	return child
}

// Mutate copies weights and shifts one random gene by a nonzero amount in (-2, 2).
func Mutate(rng *rand.Rand, weights []float64) []float64 {
	child := append([]float64(nil), weights...)
	gene := rng.Intn(len(child))
	delta := 0.0
	for delta == 0 || child[gene]+delta == child[gene] {
		delta = signedReal(rng) * 2
	}
	child[gene] += delta
	return child
}
