package game

import (
	"golang.org/x/exp/rand"
)

// State is one game in progress: the field, the per-column stack heights, the piece to
// place next and the rows cleared so far. It is a plain value, so assigning or
// returning it copies the whole board (the piece generator included) and a copy can
// be played without affecting the original.
type State struct {
	geometry    Geometry
	grid        Grid
	top         [Cols]int // Height of each column's stack, 0 if empty
	piece       int       // Piece to place next
	turn        int       // Pieces placed so far
	rowsCleared int
	lastCleared int // Rows eliminated by the last placement
	landing     int // Landing height of the last placement
	lost        bool
	rng         rand.PCGSource
}

// NewState starts an empty field whose piece sequence is fully determined by seed.
func NewState(geometry Geometry, seed uint64) State {
	s := State{geometry: geometry}
	s.rng.Seed(seed)
	s.piece = s.draw()
	return s
}

// Clone returns an independent copy of the state.
func (s *State) Clone() State {
	return *s
}

func (s *State) draw() int {
	return int(s.rng.Uint64() % uint64(s.geometry.NumPieces()))
}

func (s *State) Geometry() Geometry {
	return s.geometry
}

func (s *State) Piece() int {
	return s.piece
}

// SetPiece replaces the piece to place next, for exploring hypothetical futures.
func (s *State) SetPiece(piece int) {
	if piece < 0 || piece >= s.geometry.NumPieces() {
		panic("unknown piece")
	}
	s.piece = piece
}

func (s *State) LegalMoves() []Move {
	return s.geometry.LegalMoves(s.piece)
}

func (s *State) RowsCleared() int {
	return s.rowsCleared
}

func (s *State) Turn() int {
	return s.turn
}

// IsTerminal reports whether the game is lost.
func (s *State) IsTerminal() bool {
	return s.lost
}

func (s *State) Grid() Grid {
	return s.grid
}

func (s *State) Heights() [Cols]int {
	return s.top
}

// Play places the current piece at m, clears full rows and draws the next piece.
// A placement that would reach above the playable height marks the state lost and
// leaves the field unchanged.
func (s *State) Play(m Move) {
	if s.lost {
		panic("cannot play on a lost game")
	}

	shape := s.geometry.Shape(s.piece, m.Orient)
	base, ok := s.geometry.Place(&s.grid, &s.top, s.piece, m)
	if !ok {
		s.lost = true
		s.lastCleared = 0
		return
	}
	s.turn++
	s.landing = base + shape.Height/2

	// Only rows the piece touched can have become full
	s.lastCleared = 0
	for r := base + shape.Height - 1; r >= base; r-- {
		if !s.rowFull(r) {
			continue
		}
		s.lastCleared++
		s.removeRow(r)
	}
	s.rowsCleared += s.lastCleared

	s.piece = s.draw()
}

func (s *State) rowFull(r int) bool {
	for c := 0; c < Cols; c++ {
		if !s.grid[r][c] {
			return false
		}
	}
	return true
}

// removeRow drops every cell above row r by one and lowers the stack heights.
func (s *State) removeRow(r int) {
	for c := 0; c < Cols; c++ {
		for i := r; i < s.top[c]; i++ {
			s.grid[i][c] = s.grid[i+1][c]
		}
		s.top[c]--
		for s.top[c] >= 1 && !s.grid[s.top[c]-1][c] {
			s.top[c]--
		}
	}
}

// HighestColumn returns the tallest stack height.
func (s *State) HighestColumn() int {
	highest := 0
	for _, h := range s.top {
		highest = max(highest, h)
	}
	return highest
}

// Occupied counts the filled cells of the field.
func (s *State) Occupied() int {
	count := 0
	for r := range s.grid {
		for c := range s.grid[r] {
			if s.grid[r][c] {
				count++
			}
		}
	}
	return count
}

// Load replaces the field with grid and recomputes the stack heights. Cells above a
// column's highest filled cell stay empty by construction. It is meant for setting
// up positions; the piece generator and counters are kept.
func (s *State) Load(grid Grid) {
	s.grid = grid
	for c := 0; c < Cols; c++ {
		s.top[c] = 0
		for r := Rows - 1; r >= 0; r-- {
			if grid[r][c] {
				s.top[c] = r + 1
				break
			}
		}
	}
}
