package main

import (
	"fmt"
	"io"
	"strings"
)

// RenderText writes the grid and clue lists as plain text. Black cells are
// '#', open cells '_' unless reveal is set.
func RenderText(w io.Writer, l *Layout, reveal bool) error {
	var b strings.Builder
	for r := 0; r < l.Size(); r++ {
		for c := 0; c < l.Size(); c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			ch, ok := l.Grid.Get(r, c)
			switch {
			case !ok:
				b.WriteByte('#')
			case reveal:
				b.WriteString(strings.ToUpper(string(ch)))
			default:
				b.WriteByte('_')
			}
		}
		b.WriteByte('\n')
	}

	clues := l.Clues()
	writeClues(&b, "Across", clues.Across)
	writeClues(&b, "Down", clues.Down)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeClues(b *strings.Builder, title string, clues []Clue) {
	fmt.Fprintf(b, "\n%s\n", title)
	for _, c := range clues {
		fmt.Fprintf(b, "%3d. %s (%d) [%d,%d]\n", c.Number, c.Text, c.Length, c.Row+1, c.Col+1)
	}
}
