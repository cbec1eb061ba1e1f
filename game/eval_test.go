package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatures(t *testing.T) {
	t.Run("single deep well between walls", func(t *testing.T) {
		s := stateOf(
			"####.#####",
			"####.#####",
			"####.#####",
			"##########",
		)

		f := s.Features()

		require.Equal(t, 6, f.WellSum, "A well of depth 3 should score 3*4/2")
		require.Equal(t, 0, f.NumHoles)
		require.Equal(t, 6, f.Bumpiness)
		require.Equal(t, 37, f.AggregateHeight)
	})

	t.Run("wells split by a missing wall", func(t *testing.T) {
		s := stateOf(
			"#.#.......",
			"..#.......",
			"#.#.......",
		)

		require.Equal(t, 2, s.WellSum(), "Two runs of depth 1 should score 1 each")
		require.Equal(t, 1, s.NumHoles(), "Gap under the top-left cell is a hole")
	})

	t.Run("field edges are not walls", func(t *testing.T) {
		s := stateOf(
			".#########",
			".#########",
			".#########",
		)

		require.Equal(t, 0, s.WellSum())
	})

	t.Run("holes are counted under every covered column", func(t *testing.T) {
		s := stateOf(
			"##...#....",
			"#....#....",
			".....#....",
			"##.......#",
		)

		// Column 0: one gap, column 1: two gaps, column 5: one gap
		require.Equal(t, 4, s.NumHoles())
		require.Equal(t, s.NumHoles(), s.NumHoles(), "Counting holes twice should agree")
	})

	t.Run("empty field", func(t *testing.T) {
		s := NewState(NewStandardGeometry(), 9)

		require.Equal(t, Features{}, s.Features())
	})

	t.Run("landing height of the last placement", func(t *testing.T) {
		s := stateOf(
			"###.......",
			"###.......",
		)
		s.SetPiece(I)

		s.Play(Move{Orient: 0, Slot: 1})

		require.Equal(t, 2+4/2, s.Features().LandingHeight)
	})

	t.Run("vector follows weight order", func(t *testing.T) {
		f := Features{LandingHeight: 1, RowsEliminated: 2, NumHoles: 3, Bumpiness: 4, WellSum: 5, AggregateHeight: 6}

		require.Equal(t, [NumFeatures]float64{1, 2, 3, 4, 5, 6}, f.Vector())
	})
}

func TestFeatureInvariants(t *testing.T) {
	s := NewState(NewStandardGeometry(), 11)
	for i := 0; i < 200 && !s.IsTerminal(); i++ {
		moves := s.LegalMoves()
		s.Play(moves[(i*5)%len(moves)])

		sum := 0
		for _, h := range s.Heights() {
			sum += h
		}
		require.Equal(t, sum, s.AggregateHeight(), "Aggregate height should be the sum of column heights")
		require.GreaterOrEqual(t, s.NumHoles(), 0)
		require.Equal(t, s.NumHoles(), s.NumHoles())
		require.Equal(t, s.Features(), s.Features(), "Features should not change without a placement")
	}
}
