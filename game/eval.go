package game

// Feature indices into a weight vector.
const (
	LandingHeight = iota
	RowsEliminated
	NumHoles
	Bumpiness
	WellSum
	AggregateHeight
	NumFeatures
)

// Polarity is the sign a sensible weight takes for each feature: clearing rows is
// good, everything else is a penalty.
var Polarity = [NumFeatures]float64{
	LandingHeight:   -1,
	RowsEliminated:  1,
	NumHoles:        -1,
	Bumpiness:       -1,
	WellSum:         -1,
	AggregateHeight: -1,
}

// Features are the heuristic measurements of a state right after a placement.
type Features struct {
	LandingHeight   int
	RowsEliminated  int
	NumHoles        int
	Bumpiness       int
	WellSum         int
	AggregateHeight int
}

// Features measures s from scratch; nothing is cached between placements.
func (s *State) Features() Features {
	return Features{
		LandingHeight:   s.landing,
		RowsEliminated:  s.lastCleared,
		NumHoles:        s.NumHoles(),
		Bumpiness:       s.Bumpiness(),
		WellSum:         s.WellSum(),
		AggregateHeight: s.AggregateHeight(),
	}
}

// Vector lays the features out in weight order.
func (f Features) Vector() [NumFeatures]float64 {
	return [NumFeatures]float64{
		LandingHeight:   float64(f.LandingHeight),
		RowsEliminated:  float64(f.RowsEliminated),
		NumHoles:        float64(f.NumHoles),
		Bumpiness:       float64(f.Bumpiness),
		WellSum:         float64(f.WellSum),
		AggregateHeight: float64(f.AggregateHeight),
	}
}

func (s *State) AggregateHeight() int {
	sum := 0
	for _, h := range s.top {
		sum += h
	}
	return sum
}

// NumHoles counts empty cells that have a filled cell somewhere above them in the
// same column.
func (s *State) NumHoles() int {
	holes := 0
	for c := 0; c < Cols; c++ {
		for r := s.top[c] - 1; r >= 0; r-- {
			if !s.grid[r][c] {
				holes++
			}
		}
	}
	return holes
}

// Bumpiness sums the absolute height differences of adjacent columns.
func (s *State) Bumpiness() int {
	bumpiness := 0
	for c := 0; c < Cols-1; c++ {
		d := s.top[c] - s.top[c+1]
		if d < 0 {
			d = -d
		}
		bumpiness += d
	}
	return bumpiness
}

// WellSum scores the open wells above each column's stack. A well cell is empty
// with filled cells directly to its left and right; the field edges do not count as
// walls. Every maximal vertical run of h well cells contributes h*(h+1)/2.
func (s *State) WellSum() int {
	sum := 0
	for c := 1; c < Cols-1; c++ {
		run := 0
		// The scan stops at the stack: covered cells are holes, not wells
		for r := Rows - 1; r >= s.top[c]; r-- {
			if s.grid[r][c-1] && s.grid[r][c+1] {
				run++
				continue
			}
			sum += run * (run + 1) / 2
			run = 0
		}
		sum += run * (run + 1) / 2
	}
	return sum
}
