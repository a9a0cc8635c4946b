package main

import "unicode"

// CanPlace reports whether word may be written starting at (row, col) in the
// given orientation without conflicting with letters already on the grid.
//
// A word may cross existing letters only where they match. Every newly written
// cell must have no perpendicular neighbour, and a newly written first or last
// letter must not touch a letter just before the start or just after the end.
// Cells shared through an intersection skip those adjacency checks.
func (g *Grid) CanPlace(word string, row, col int, o Orientation) bool {
	runes := []rune(word)
	n := len(runes)
	if n == 0 {
		return false
	}

	dr, dc := o.step()
	if !g.InBounds(row, col) || !g.InBounds(row+dr*(n-1), col+dc*(n-1)) {
		return false
	}

	for i, ch := range runes {
		r, c := row+dr*i, col+dc*i
		ch = unicode.ToLower(ch)

		if cur, ok := g.Get(r, c); ok {
			if cur != ch {
				return false
			}
			continue
		}

		if g.hasPerpendicularNeighbour(r, c, o) {
			return false
		}
		if i == 0 && g.Occupied(r-dr, c-dc) {
			return false
		}
		if i == n-1 && g.Occupied(r+dr, c+dc) {
			return false
		}
	}
	return true
}

// hasPerpendicularNeighbour checks the two cells beside (row, col) across the
// word's direction: above and below for an across word, left and right for down.
func (g *Grid) hasPerpendicularNeighbour(row, col int, o Orientation) bool {
	if o == Across {
		return g.Occupied(row-1, col) || g.Occupied(row+1, col)
	}
	return g.Occupied(row, col-1) || g.Occupied(row, col+1)
}

// place writes word onto the grid. Callers must check CanPlace first.
func (g *Grid) place(word string, row, col int, o Orientation) {
	dr, dc := o.step()
	for i, ch := range []rune(word) {
		g.Set(row+dr*i, col+dc*i, ch)
	}
}
