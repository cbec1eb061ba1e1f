package game

// Field dimensions. The top row is never playable: a placement that reaches it loses.
const (
	Rows = 21
	Cols = 10
)

// Move places the current piece in one orientation with its left edge at Slot.
type Move struct {
	Orient int
	Slot   int
}

// Grid is the occupancy of the field, indexed [row][column] with row 0 at the bottom.
type Grid [Rows][Cols]bool

// Shape describes one orientation of a piece. Bottom[c] and Top[c] are the lowest
// occupied row and one past the highest occupied row of piece column c.
type Shape struct {
	Width  int
	Height int
	Bottom []int
	Top    []int
}

// Geometry is the piece catalog and the raw placement rules of the field.
// Implementations must be immutable: one value is shared by every State of a process.
type Geometry interface {
	NumPieces() int
	Orientations(piece int) int
	Shape(piece, orient int) Shape
	// LegalMoves lists every placement of piece. The order is significant: it
	// defines how ties between equally scored moves are broken.
	LegalMoves(piece int) []Move
	// Place drops piece at m onto grid and top, returning the resting base row.
	// It returns false, leaving grid and top untouched, when the piece would
	// reach the unplayable top row.
	Place(grid *Grid, top *[Cols]int, piece int, m Move) (base int, ok bool)
}
