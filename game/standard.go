package game

import "fmt"

// Piece identifiers of the standard catalog.
const (
	O = iota
	I
	L
	J
	T
	S
	Z
	NumPieces
)

type cell struct{ col, row int }

// Cells of every orientation, listed as (column, row) offsets from the bottom-left
// corner of the orientation's bounding box.
var standardCells = [NumPieces][][]cell{
	O: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	I: {
		{{0, 0}, {0, 1}, {0, 2}, {0, 3}},
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	},
	L: {
		{{0, 0}, {0, 1}, {0, 2}, {1, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{0, 2}, {1, 0}, {1, 1}, {1, 2}},
		{{0, 0}, {1, 0}, {2, 0}, {2, 1}},
	},
	J: {
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 0}, {2, 0}},
		{{0, 0}, {0, 1}, {0, 2}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 0}, {2, 1}},
	},
	T: {
		{{0, 0}, {0, 1}, {0, 2}, {1, 1}},
		{{0, 1}, {1, 0}, {1, 1}, {2, 1}},
		{{0, 1}, {1, 0}, {1, 1}, {1, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {2, 0}},
	},
	S: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{0, 1}, {0, 2}, {1, 0}, {1, 1}},
	},
	Z: {
		{{0, 1}, {1, 0}, {1, 1}, {2, 0}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
}

// Standard is the seven-piece catalog on a Rows x Cols field.
type Standard struct {
	shapes [NumPieces][]Shape
	moves  [NumPieces][]Move
}

// NewStandardGeometry builds the width, height, bottom and top tables and the
// ordered legal move lists once. The result is read-only and safe to share.
func NewStandardGeometry() *Standard {
	g := &Standard{}
	for piece, orients := range standardCells {
		for orient, cells := range orients {
			shape := shapeOf(cells)
			g.shapes[piece] = append(g.shapes[piece], shape)
			for slot := 0; slot <= Cols-shape.Width; slot++ {
				g.moves[piece] = append(g.moves[piece], Move{Orient: orient, Slot: slot})
			}
		}
	}
	return g
}

func shapeOf(cells []cell) Shape {
	width, height := 0, 0
	for _, c := range cells {
		width = max(width, c.col+1)
		height = max(height, c.row+1)
	}
	shape := Shape{
		Width:  width,
		Height: height,
		Bottom: make([]int, width),
		Top:    make([]int, width),
	}
	for c := range shape.Bottom {
		shape.Bottom[c] = height
	}
	for _, c := range cells {
		shape.Bottom[c.col] = min(shape.Bottom[c.col], c.row)
		shape.Top[c.col] = max(shape.Top[c.col], c.row+1)
	}
	return shape
}

func (g *Standard) NumPieces() int {
	return NumPieces
}

func (g *Standard) Orientations(piece int) int {
	return len(g.shapes[piece])
}

func (g *Standard) Shape(piece, orient int) Shape {
	return g.shapes[piece][orient]
}

func (g *Standard) LegalMoves(piece int) []Move {
	return g.moves[piece]
}

func (g *Standard) Place(grid *Grid, top *[Cols]int, piece int, m Move) (int, bool) {
	if m.Orient < 0 || m.Orient >= len(g.shapes[piece]) {
		panic(fmt.Sprintf("piece %d has no orientation %d", piece, m.Orient))
	}
	shape := g.shapes[piece][m.Orient]
	if m.Slot < 0 || m.Slot+shape.Width > Cols {
		panic(fmt.Sprintf("slot %d out of range for piece %d orientation %d", m.Slot, piece, m.Orient))
	}

	// Rest on whichever column the piece touches first
	base := top[m.Slot] - shape.Bottom[0]
	for c := 1; c < shape.Width; c++ {
		base = max(base, top[m.Slot+c]-shape.Bottom[c])
	}
	if base+shape.Height >= Rows {
		return base, false
	}

	for c := 0; c < shape.Width; c++ {
		for r := base + shape.Bottom[c]; r < base+shape.Top[c]; r++ {
			grid[r][m.Slot+c] = true
		}
		top[m.Slot+c] = base + shape.Top[c]
	}
	return base, true
}
