package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stateOf builds a state whose field is drawn top row first, '#' marking filled cells.
func stateOf(rows ...string) State {
	s := NewState(NewStandardGeometry(), 1)
	var grid Grid
	for i, line := range rows {
		r := len(rows) - 1 - i
		for c, ch := range line {
			if ch == '#' {
				grid[r][c] = true
			}
		}
	}
	s.Load(grid)
	return s
}

// requireConsistentHeights checks that each column's height sits right above its
// highest filled cell and that nothing above it is filled.
func requireConsistentHeights(t *testing.T, s *State) {
	t.Helper()
	grid := s.Grid()
	for c, h := range s.Heights() {
		if h > 0 {
			require.True(t, grid[h-1][c], "column %d should be filled right below its height %d", c, h)
		}
		for r := h; r < Rows; r++ {
			require.False(t, grid[r][c], "column %d should be empty above its height at row %d", c, r)
		}
	}
}

func TestStandardGeometry(t *testing.T) {
	g := NewStandardGeometry()

	t.Run("legal move counts per piece", func(t *testing.T) {
		expected := map[int]int{O: 9, I: 17, L: 34, J: 34, T: 34, S: 17, Z: 17}
		for piece, count := range expected {
			require.Len(t, g.LegalMoves(piece), count, "Piece %d should have %d placements", piece, count)
		}
	})

	t.Run("every orientation has four cells", func(t *testing.T) {
		for piece := 0; piece < g.NumPieces(); piece++ {
			for orient := 0; orient < g.Orientations(piece); orient++ {
				shape := g.Shape(piece, orient)
				cells := 0
				for c := 0; c < shape.Width; c++ {
					cells += shape.Top[c] - shape.Bottom[c]
					require.LessOrEqual(t, shape.Top[c], shape.Height)
				}
				require.Equal(t, 4, cells, "Piece %d orientation %d should have 4 cells", piece, orient)
			}
		}
	})

	t.Run("moves are ordered by orientation then slot", func(t *testing.T) {
		moves := g.LegalMoves(I)
		require.Equal(t, Move{Orient: 0, Slot: 0}, moves[0])
		require.Equal(t, Move{Orient: 0, Slot: 9}, moves[9])
		require.Equal(t, Move{Orient: 1, Slot: 0}, moves[10])
		require.Equal(t, Move{Orient: 1, Slot: 6}, moves[16])
	})

	t.Run("placing rests on the first column touched", func(t *testing.T) {
		var grid Grid
		top := [Cols]int{0, 3, 1}
		base, ok := g.Place(&grid, &top, O, Move{Orient: 0, Slot: 1})

		require.True(t, ok)
		require.Equal(t, 3, base, "O should rest on the taller column")
		require.Equal(t, 5, top[1])
		require.Equal(t, 5, top[2])
		require.True(t, grid[3][1])
		require.True(t, grid[4][2])
	})

	t.Run("placing an out of range slot panics", func(t *testing.T) {
		var grid Grid
		var top [Cols]int
		require.Panics(t, func() {
			g.Place(&grid, &top, O, Move{Orient: 0, Slot: 9})
		})
	})
}

func TestStatePlay(t *testing.T) {
	t.Run("clearing two rows", func(t *testing.T) {
		s := stateOf(
			"########..",
			"########..",
		)
		s.SetPiece(O)
		before := s.Occupied()

		s.Play(Move{Orient: 0, Slot: 8})

		require.False(t, s.IsTerminal())
		require.Equal(t, 2, s.RowsCleared(), "Both rows should be cleared")
		require.Equal(t, before+4-2*Cols, s.Occupied(), "Cleared rows should remove a full row of cells each")
		require.Equal(t, [Cols]int{}, s.Heights(), "Field should be empty")
		require.Equal(t, 2, s.Features().RowsEliminated)
	})

	t.Run("clearing compacts rows above", func(t *testing.T) {
		s := stateOf(
			"#.........",
			".#######..",
			"#########.",
		)
		s.SetPiece(I)

		s.Play(Move{Orient: 0, Slot: 9})

		require.Equal(t, 1, s.RowsCleared())
		grid := s.Grid()
		require.True(t, grid[1][0], "Top-left cell should drop by one row")
		require.False(t, grid[0][0], "Bottom-left cell should now be the gap of the old middle row")
		require.True(t, grid[0][9])
		require.Equal(t, 3, s.Heights()[9], "I piece remainder should be three tall")
		requireConsistentHeights(t, &s)
	})

	t.Run("placing above the playable height loses", func(t *testing.T) {
		rows := make([]string, 0, Rows-2)
		for i := 0; i < Rows-2; i++ {
			rows = append(rows, "#.........")
		}
		s := stateOf(rows...)
		s.SetPiece(I)
		grid := s.Grid()

		s.Play(Move{Orient: 0, Slot: 0})

		require.True(t, s.IsTerminal(), "Vertical I on a 19-tall column should lose")
		require.Equal(t, grid, s.Grid(), "Field should be unchanged by a losing placement")
		require.Panics(t, func() { s.Play(Move{Orient: 0, Slot: 1}) }, "Lost games accept no moves")
	})

	t.Run("cleared rows and occupancy stay consistent over a game", func(t *testing.T) {
		s := NewState(NewStandardGeometry(), 7)
		for i := 0; i < 300 && !s.IsTerminal(); i++ {
			moves := s.LegalMoves()
			m := moves[(i*7)%len(moves)]
			before := s.Occupied()
			rows := s.RowsCleared()

			s.Play(m)
			if s.IsTerminal() {
				break
			}

			k := s.RowsCleared() - rows
			require.Equal(t, before+4-k*Cols, s.Occupied())
			require.Equal(t, k, s.Features().RowsEliminated)
			requireConsistentHeights(t, &s)
		}
	})
}

func TestStateClone(t *testing.T) {
	t.Run("playing a clone leaves the original unchanged", func(t *testing.T) {
		s := stateOf(
			"###.......",
			"#####.....",
		)
		snapshot := s

		c := s.Clone()
		c.Play(c.LegalMoves()[0])
		c.SetPiece(Z)

		require.Equal(t, snapshot, s)
		require.NotEqual(t, s.Grid(), c.Grid())
	})

	t.Run("a clone draws the same pieces as the original", func(t *testing.T) {
		s := NewState(NewStandardGeometry(), 3)
		c := s.Clone()
		for i := 0; i < 20; i++ {
			m := Move{Orient: 0, Slot: 0}
			s.SetPiece(O)
			c.SetPiece(O)
			s.Play(m)
			c.Play(m)
			require.Equal(t, s.Piece(), c.Piece())
			if s.HighestColumn() > 10 {
				break
			}
		}
	})
}

func TestNewState(t *testing.T) {
	t.Run("same seed yields same pieces", func(t *testing.T) {
		g := NewStandardGeometry()
		a := NewState(g, 42)
		b := NewState(g, 42)
		for i := 0; i < 10; i++ {
			require.Equal(t, a.Piece(), b.Piece())
			a.SetPiece(O)
			b.SetPiece(O)
			a.Play(Move{Orient: 0, Slot: (2 * i) % 10})
			b.Play(Move{Orient: 0, Slot: (2 * i) % 10})
		}
	})

	t.Run("starts empty", func(t *testing.T) {
		s := NewState(NewStandardGeometry(), 42)
		require.Equal(t, 0, s.Occupied())
		require.Equal(t, 0, s.RowsCleared())
		require.False(t, s.IsTerminal())
		require.GreaterOrEqual(t, s.Piece(), 0)
		require.Less(t, s.Piece(), NumPieces)
	})
}
