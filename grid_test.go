package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSetGet(t *testing.T) {
	g := NewGrid(5)

	_, ok := g.Get(0, 0)
	assert.False(t, ok, "new cells are black")

	require.True(t, g.Set(0, 0, 'A'))
	r, ok := g.Get(0, 0)
	require.True(t, ok)
	assert.Equal(t, 'a', r, "letters are stored lowercase")

	assert.True(t, g.Set(0, 0, 'a'), "same letter twice is a no-op")
	assert.False(t, g.Set(0, 0, 'b'), "different letter on an occupied cell")
	r, _ = g.Get(0, 0)
	assert.Equal(t, 'a', r)
}

func TestGridOutOfBounds(t *testing.T) {
	g := NewGrid(3)

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		_, ok := g.Get(pos[0], pos[1])
		assert.False(t, ok, "Get(%d,%d)", pos[0], pos[1])
		assert.False(t, g.Occupied(pos[0], pos[1]))
		assert.False(t, g.Set(pos[0], pos[1], 'x'), "Set(%d,%d)", pos[0], pos[1])
	}
}

func TestGridRows(t *testing.T) {
	g := NewGrid(3)
	g.Set(1, 0, 'h')
	g.Set(1, 1, 'i')

	assert.Equal(t, []string{"...", "hi.", "..."}, g.Rows())
}
