package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"unicode"
)

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// starPool is a ten word pool whose layout does not depend on randomness:
// every three letter word crosses the ten letter seed at one letter and the
// two letter words share nothing with anyone.
func starPool() []Word {
	texts := []string{"abcdefghij", "kal", "mcn", "oep", "qgr", "sit", "uv", "wx", "yz", "ßä"}
	words := make([]Word, len(texts))
	for i, t := range texts {
		words[i] = Word{ID: fmt.Sprintf("w%d", i), Text: t, Clue: fmt.Sprintf("clue %d", i), Tags: []string{"star"}}
	}
	return words
}

// starVocabulary renders starPool as importable pipe-delimited lines.
func starVocabulary() string {
	var b strings.Builder
	for _, w := range starPool() {
		fmt.Fprintf(&b, "%s|Noun||||%s|||||%s\n", w.Text, w.Clue, strings.Join(w.Tags, ","))
	}
	return b.String()
}

// germanPool is a realistic pool used for randomized property checks. It
// carries umlauts and a hyphenated entry.
func germanPool() []Word {
	texts := []string{
		"Haus", "Auto", "Sonne", "Mond", "Stern", "Baum", "Blume", "Wasser", "Feuer", "Erde",
		"Apfel", "Banane", "Brot", "Butter", "Käse", "Milch", "Zucker", "Salz", "Tisch", "Stuhl",
		"Fenster", "Tür", "Strasse", "Bahnhof", "Schule", "Lehrer", "E-Mail", "Familie", "Bruder", "Schwester",
	}
	words := make([]Word, len(texts))
	for i, t := range texts {
		words[i] = Word{ID: t, Text: t, Clue: "def " + t}
	}
	return words
}

// solveLayout types every answer cell of g in upper case, row by row, and
// returns the final move.
func solveLayout(t *testing.T, g *GameSession) Move {
	t.Helper()
	grid := g.Layout.Grid
	var last Move
	for r := 0; r < grid.Size(); r++ {
		for c := 0; c < grid.Size(); c++ {
			answer, ok := grid.Get(r, c)
			if !ok {
				continue
			}
			m, err := g.RecordInput(r, c, string(unicode.ToUpper(answer)))
			if err != nil {
				t.Fatalf("typing %q at (%d,%d): %v", unicode.ToUpper(answer), r, c, err)
			}
			last = m
		}
	}
	return last
}

// readWord returns the letters of w as stored on the grid.
func readWord(t *testing.T, g *Grid, w PlacedWord) string {
	t.Helper()
	dr, dc := w.Orientation.step()
	var out []rune
	for i := 0; i < w.Len(); i++ {
		r, ok := g.Get(w.Row+dr*i, w.Col+dc*i)
		if !ok {
			t.Fatalf("word %q has a black cell at letter %d", w.Text, i)
		}
		out = append(out, r)
	}
	return string(out)
}
