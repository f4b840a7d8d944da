package engine

import "fmt"

// Board is a square grid of tile values stored in row-major order.
// A zero cell is empty. The cell slice always holds exactly size*size values.
type Board struct {
	size       int
	cells      []uint32
	printwidth int
}

// NewBoard allocates an empty size x size board
func NewBoard(size int) (*Board, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &Board{
		size:       size,
		cells:      make([]uint32, size*size),
		printwidth: 1,
	}, nil
}

// Reset empties every cell. Printwidth is left as is since it never shrinks.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i] = 0
	}
}

// EmptyCells returns the indices of zero cells in row-major order
func (b *Board) EmptyCells() []int {
	empties := make([]int, 0, len(b.cells))
	for i, v := range b.cells {
		if v == 0 {
			empties = append(empties, i)
		}
	}
	return empties
}

// MaxValue returns the largest tile on the board
func (b *Board) MaxValue() uint32 {
	var max uint32
	for _, v := range b.cells {
		if v > max {
			max = v
		}
	}
	return max
}

// Size returns the length of one side
func (b *Board) Size() int {
	return b.size
}

// PrintWidth returns the minimum field width needed to display any tile produced so far
func (b *Board) PrintWidth() int {
	return b.printwidth
}

// Index converts column x and row y to a cell index
func (b *Board) Index(x, y int) int {
	return x + y*b.size
}

// Cell returns the value at column x, row y
func (b *Board) Cell(x, y int) uint32 {
	return b.cells[b.Index(x, y)]
}

// Set writes v at column x, row y
func (b *Board) Set(x, y int, v uint32) {
	b.cells[b.Index(x, y)] = v
	b.widen(v)
}

// Cells returns a copy of the row-major cell values
func (b *Board) Cells() []uint32 {
	out := make([]uint32, len(b.cells))
	copy(out, b.cells)
	return out
}

// Rows returns a copy of the board as a slice of rows
func (b *Board) Rows() [][]uint32 {
	rows := make([][]uint32, b.size)
	for y := range rows {
		rows[y] = make([]uint32, b.size)
		copy(rows[y], b.cells[y*b.size:(y+1)*b.size])
	}
	return rows
}

// Clone returns an independent copy, including printwidth
func (b *Board) Clone() *Board {
	return &Board{
		size:       b.size,
		cells:      b.Cells(),
		printwidth: b.printwidth,
	}
}

// TileCount returns the number of nonzero cells
func (b *Board) TileCount() int {
	return len(b.cells) - len(b.EmptyCells())
}

// widen raises printwidth to fit v; it never lowers it
func (b *Board) widen(v uint32) {
	if w := digits(v); w > b.printwidth {
		b.printwidth = w
	}
}
