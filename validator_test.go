package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// hausGrid holds "haus" across at row 7, columns 5 to 8.
func hausGrid() *Grid {
	g := NewGrid(DefaultGridSize)
	g.place("haus", 7, 5, Across)
	return g
}

func TestCanPlaceIntersection(t *testing.T) {
	g := hausGrid()

	assert.True(t, g.CanPlace("sonne", 7, 8, Down), "crossing on the shared s")
	assert.True(t, g.CanPlace("SONNE", 7, 8, Down), "matching is case-insensitive")
	assert.True(t, g.CanPlace("bus", 5, 8, Down), "crossing on the last letter")
	assert.True(t, g.CanPlace("bar", 6, 6, Down), "crossing in the middle")
}

func TestCanPlaceConflict(t *testing.T) {
	g := hausGrid()

	assert.False(t, g.CanPlace("xyz", 6, 5, Down), "y would overwrite h")
	assert.False(t, g.CanPlace("haut", 7, 5, Across), "t would overwrite s")
}

func TestCanPlaceBounds(t *testing.T) {
	g := hausGrid()

	assert.False(t, g.CanPlace("abc", -1, 0, Down))
	assert.False(t, g.CanPlace("abc", 0, -1, Across))
	assert.False(t, g.CanPlace("abc", 0, 13, Across), "end exceeds the grid")
	assert.False(t, g.CanPlace("abc", 13, 0, Down), "end exceeds the grid")
	assert.True(t, g.CanPlace("abc", 0, 12, Across), "ends on the last column")
	assert.False(t, g.CanPlace("", 0, 0, Across))
}

func TestCanPlaceRejectsParallelContact(t *testing.T) {
	g := hausGrid()

	assert.False(t, g.CanPlace("tier", 8, 5, Across), "flush below haus")
	assert.False(t, g.CanPlace("tier", 6, 3, Across), "overlaps above haus")
	// A down word next to the s of haus touches it sideways.
	assert.False(t, g.CanPlace("mond", 5, 9, Down))
}

func TestCanPlaceRejectsConcatenation(t *testing.T) {
	g := hausGrid()

	assert.False(t, g.CanPlace("ab", 7, 9, Across), "starts right after haus")
	assert.False(t, g.CanPlace("ab", 7, 3, Across), "ends right before haus")
	assert.False(t, g.CanPlace("ab", 5, 5, Down), "ends right above the h")
}

func TestCanPlaceAcceptsBoundaryGaps(t *testing.T) {
	g := hausGrid()

	// One empty cell separates the new word from haus on each side.
	assert.True(t, g.CanPlace("ab", 7, 10, Across))
	assert.True(t, g.CanPlace("ab", 7, 2, Across))
}

func TestCanPlaceBoundaryCheckSkipsIntersections(t *testing.T) {
	g := hausGrid()
	g.Set(6, 7, 'q')

	// The first letter lands on the existing u, so the q just before it does
	// not count as a concatenation.
	assert.True(t, g.CanPlace("ux", 7, 7, Down))
	// Starting one row higher runs into the q.
	assert.False(t, g.CanPlace("zux", 6, 7, Down))
}
