package main

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	ErrOutOfBounds  = errors.New("position out of bounds")
	ErrBlackCell    = errors.New("black cell")
	ErrInvalidInput = errors.New("input must be a single character or empty")
)

// CellView is the display state of one cell.
type CellView struct {
	Black   bool   `json:"black"`
	Number  int    `json:"number,omitempty"`
	Input   string `json:"input,omitempty"`
	Correct bool   `json:"correct,omitempty"`
}

// Move is the outcome of one keystroke.
type Move struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Value      string `json:"value"`
	Correct    bool   `json:"correct"`
	Solved     bool   `json:"solved"`
	JustSolved bool   `json:"-"`
}

// GameSession is one crossword being played.
type GameSession struct {
	ID        string    `json:"id"`
	Layout    *Layout   `json:"-"`
	CreatedAt time.Time `json:"created_at"`

	mu     sync.Mutex
	input  [][]rune
	solved bool
}

// NewGameSession starts a session with empty input on every cell.
func NewGameSession(id string, layout *Layout) *GameSession {
	input := make([][]rune, layout.Size())
	for i := range input {
		input[i] = make([]rune, layout.Size())
	}
	return &GameSession{
		ID:        id,
		Layout:    layout,
		CreatedAt: time.Now(),
		input:     input,
	}
}

// RecordInput stores the player's character at (row, col) and reports whether
// it matches the answer and whether the puzzle is now solved. Any printable
// rune is accepted so that hyphens, apostrophes and digits in answers can be
// typed. An empty value clears the cell. JustSolved is set only on the keystroke that completes the
// puzzle.
func (g *GameSession) RecordInput(row, col int, value string) (Move, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > 1 {
		return Move{}, ErrInvalidInput
	}
	var in rune
	if value != "" {
		in, _ = utf8.DecodeRuneInString(value)
		if !typeable(in) {
			return Move{}, ErrInvalidInput
		}
		in = unicode.ToLower(in)
	}

	if !g.Layout.Grid.InBounds(row, col) {
		return Move{}, ErrOutOfBounds
	}
	answer, ok := g.Layout.Grid.Get(row, col)
	if !ok {
		return Move{}, ErrBlackCell
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.input[row][col] = in
	m := Move{Row: row, Col: col, Correct: in != 0 && in == answer}
	if in != 0 {
		m.Value = string(in)
	}

	if m.Correct && !g.solved && g.allCorrect() {
		g.solved = true
		m.JustSolved = true
	}
	m.Solved = g.solved
	return m, nil
}

// typeable reports whether r can be entered into a cell.
func typeable(r rune) bool {
	return r != utf8.RuneError && !unicode.IsSpace(r) && !unicode.IsControl(r)
}

// allCorrect scans every letter cell. Callers hold g.mu.
func (g *GameSession) allCorrect() bool {
	grid := g.Layout.Grid
	for r := 0; r < grid.Size(); r++ {
		for c := 0; c < grid.Size(); c++ {
			answer, ok := grid.Get(r, c)
			if ok && g.input[r][c] != answer {
				return false
			}
		}
	}
	return true
}

// Solved reports whether every letter cell has been filled correctly.
func (g *GameSession) Solved() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.solved
}

// Cells returns a snapshot of the display state, indexed [row][col].
func (g *GameSession) Cells() [][]CellView {
	g.mu.Lock()
	defer g.mu.Unlock()

	grid := g.Layout.Grid
	out := make([][]CellView, grid.Size())
	for r := range out {
		out[r] = make([]CellView, grid.Size())
		for c := range out[r] {
			answer, ok := grid.Get(r, c)
			if !ok {
				out[r][c] = CellView{Black: true}
				continue
			}
			cv := CellView{Number: g.Layout.NumberAt(r, c)}
			if in := g.input[r][c]; in != 0 {
				cv.Input = string(in)
				cv.Correct = in == answer
			}
			out[r][c] = cv
		}
	}
	return out
}
