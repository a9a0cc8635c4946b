package main

import "unicode"

// DefaultGridSize is the side length of a generated crossword.
const DefaultGridSize = 15

// Orientation is the direction a word runs on the grid.
type Orientation int

const (
	Across Orientation = iota
	Down
)

func (o Orientation) String() string {
	if o == Down {
		return "down"
	}
	return "across"
}

// MarshalText encodes the orientation as "across" or "down".
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Perpendicular returns the other orientation.
func (o Orientation) Perpendicular() Orientation {
	if o == Across {
		return Down
	}
	return Across
}

// step returns the row and column increments for one letter.
func (o Orientation) step() (dr, dc int) {
	if o == Down {
		return 1, 0
	}
	return 0, 1
}

// Grid is a fixed-size square of cells. A zero rune is a black cell.
type Grid struct {
	size  int
	cells [][]rune
}

// NewGrid creates an all-black grid of the given size.
func NewGrid(size int) *Grid {
	cells := make([][]rune, size)
	for i := range cells {
		cells[i] = make([]rune, size)
	}
	return &Grid{size: size, cells: cells}
}

// Size returns the side length of the grid.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.size && col >= 0 && col < g.size
}

// Get returns the rune stored at (row, col). ok is false for black cells and
// for positions outside the grid.
func (g *Grid) Get(row, col int) (r rune, ok bool) {
	if !g.InBounds(row, col) {
		return 0, false
	}
	r = g.cells[row][col]
	return r, r != 0
}

// Occupied reports whether (row, col) holds a letter.
func (g *Grid) Occupied(row, col int) bool {
	_, ok := g.Get(row, col)
	return ok
}

// Set writes a lowercase rune at (row, col). Returns false when the position
// is outside the grid or already holds a different letter.
func (g *Grid) Set(row, col int, r rune) bool {
	if !g.InBounds(row, col) {
		return false
	}
	r = unicode.ToLower(r)
	if cur := g.cells[row][col]; cur != 0 && cur != r {
		return false
	}
	g.cells[row][col] = r
	return true
}

// Rows returns a copy of the grid as strings, with '.' for black cells.
func (g *Grid) Rows() []string {
	out := make([]string, g.size)
	for i, row := range g.cells {
		line := make([]rune, len(row))
		for j, r := range row {
			if r == 0 {
				line[j] = '.'
			} else {
				line[j] = r
			}
		}
		out[i] = string(line)
	}
	return out
}
