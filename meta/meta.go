// meta/meta.go
package meta

// POPULATION_SIZE is the number of candidates kept after every selection.
const POPULATION_SIZE = 50

// CROSSOVER_PCT of the population size is the number of children bred by crossover
// each generation.
const CROSSOVER_PCT = 10

// MUTATION_PCT of the population size is the number of mutants per generation.
const MUTATION_PCT = 10

// NUM_FEATURES is the length of a weight vector.
const NUM_FEATURES = 6

// ITERATIONS is the number of generations after the initial one.
const ITERATIONS = 20000

// TRIALS_PER_CANDIDATE is the number of games played to score a candidate.
const TRIALS_PER_CANDIDATE = 5

// LOOK_AHEAD_HEIGHT is the stack height above which moves are picked with look-ahead.
const LOOK_AHEAD_HEIGHT = 10
