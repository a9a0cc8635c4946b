package main

import (
	"errors"
	"math/rand/v2"
	"sort"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPlacedWords caps how many words a layout may hold.
	MaxPlacedWords = 10
	// MinPlacedWords is the smallest layout considered a playable puzzle.
	MinPlacedWords = 5
)

// ErrGenerationFailed is returned when too few words could be placed.
var ErrGenerationFailed = errors.New("could not generate a valid grid")

// PlacedWord is a vocabulary entry positioned on the grid.
type PlacedWord struct {
	ID          string      `json:"id"`
	Text        string      `json:"-"`
	Clue        string      `json:"clue"`
	Row         int         `json:"row"`
	Col         int         `json:"col"`
	Orientation Orientation `json:"orientation"`
	Number      int         `json:"number"`
}

// Len returns the number of letters of the word.
func (p PlacedWord) Len() int { return utf8.RuneCountInString(p.Text) }

// Covers reports whether the word occupies (row, col).
func (p PlacedWord) Covers(row, col int) bool {
	if p.Orientation == Across {
		return row == p.Row && col >= p.Col && col < p.Col+p.Len()
	}
	return col == p.Col && row >= p.Row && row < p.Row+p.Len()
}

// Layout is a finished crossword: the filled grid and its numbered words.
type Layout struct {
	Grid  *Grid
	Words []PlacedWord
}

// Size returns the side length of the layout's grid.
func (l *Layout) Size() int { return l.Grid.Size() }

// Clue is one numbered entry of the clue list.
type Clue struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	WordID string `json:"word_id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Length int    `json:"length"`
}

// Clues is the clue list split by orientation.
type Clues struct {
	Across []Clue `json:"across"`
	Down   []Clue `json:"down"`
}

// Clues returns the numbered clues partitioned into across and down, each in
// number order.
func (l *Layout) Clues() Clues {
	cl := Clues{Across: []Clue{}, Down: []Clue{}}
	for _, w := range l.Words {
		c := Clue{Number: w.Number, Text: w.Clue, WordID: w.ID, Row: w.Row, Col: w.Col, Length: w.Len()}
		if w.Orientation == Across {
			cl.Across = append(cl.Across, c)
		} else {
			cl.Down = append(cl.Down, c)
		}
	}
	return cl
}

// NumberAt returns the lowest word number starting at (row, col), or 0.
func (l *Layout) NumberAt(row, col int) int {
	for _, w := range l.Words {
		if w.Row == row && w.Col == col {
			return w.Number
		}
	}
	return 0
}

// Generate builds a crossword of the given size from candidates.
//
// The longest candidate is laid across the middle row. Every other candidate,
// longest first, is attached to the first placed word (tried in random order)
// and letter pair that yields a valid crossing. Candidates that cannot cross
// anything are dropped; nothing is revisited. Placement stops at
// MaxPlacedWords and fewer than MinPlacedWords placed is a failure.
func Generate(candidates []Word, size int, rng *rand.Rand) (*Layout, error) {
	if len(candidates) == 0 {
		return nil, ErrGenerationFailed
	}

	pool := make([]Word, len(candidates))
	copy(pool, candidates)
	sort.SliceStable(pool, func(i, j int) bool {
		return utf8.RuneCountInString(pool[i].Text) > utf8.RuneCountInString(pool[j].Text)
	})

	g := NewGrid(size)
	seed := pool[0]
	seedRow := size / 2
	seedCol := (size - utf8.RuneCountInString(seed.Text)) / 2
	if !g.CanPlace(seed.Text, seedRow, seedCol, Across) {
		return nil, ErrGenerationFailed
	}
	g.place(seed.Text, seedRow, seedCol, Across)
	placed := []PlacedWord{newPlacedWord(seed, seedRow, seedCol, Across)}

	for _, w := range pool[1:] {
		if len(placed) >= MaxPlacedWords {
			break
		}
		if pw, ok := attach(g, placed, w, rng); ok {
			g.place(pw.Text, pw.Row, pw.Col, pw.Orientation)
			placed = append(placed, pw)
		}
	}

	sort.SliceStable(placed, func(i, j int) bool {
		if placed[i].Row != placed[j].Row {
			return placed[i].Row < placed[j].Row
		}
		return placed[i].Col < placed[j].Col
	})
	for i := range placed {
		placed[i].Number = i + 1
	}

	if len(placed) < MinPlacedWords {
		return nil, ErrGenerationFailed
	}
	return &Layout{Grid: g, Words: placed}, nil
}

// attach finds the first valid crossing of w with one of the placed words.
func attach(g *Grid, placed []PlacedWord, w Word, rng *rand.Rand) (PlacedWord, bool) {
	targets := make([]PlacedWord, len(placed))
	copy(targets, placed)
	rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })

	word := []rune(w.Text)
	for _, t := range targets {
		target := []rune(t.Text)
		o := t.Orientation.Perpendicular()
		tdr, tdc := t.Orientation.step()
		dr, dc := o.step()

		for i, ch := range word {
			ch = unicode.ToLower(ch)
			for j, tch := range target {
				if unicode.ToLower(tch) != ch {
					continue
				}
				row := t.Row + tdr*j - dr*i
				col := t.Col + tdc*j - dc*i
				if g.CanPlace(w.Text, row, col, o) {
					return newPlacedWord(w, row, col, o), true
				}
			}
		}
	}
	return PlacedWord{}, false
}

func newPlacedWord(w Word, row, col int, o Orientation) PlacedWord {
	return PlacedWord{ID: w.ID, Text: w.Text, Clue: w.Clue, Row: row, Col: col, Orientation: o}
}
