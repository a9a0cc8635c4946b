package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const defaultClue = "No definition"

// Word is a vocabulary entry.
type Word struct {
	ID   string   `json:"id"`
	Text string   `json:"text"`
	Clue string   `json:"clue"`
	Tags []string `json:"tags"`
}

// HasAnyTag reports whether the word carries at least one of tags.
func (w Word) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		for _, wt := range w.Tags {
			if wt == t {
				return true
			}
		}
	}
	return false
}

// ParseVocabulary reads pipe-delimited vocabulary lines:
//
//	word|pos|gender|german|plural|definition|...|...|example_de|example_en|tags
//
// Anything after '#' in the first column is a comment. The cleaned first
// column is both the ID and the text. Blank lines and lines with an empty word
// are skipped.
func ParseVocabulary(r io.Reader) ([]Word, error) {
	var words []Word
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		cols := strings.Split(line, "|")
		text, _, _ := strings.Cut(cols[0], "#")
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		w := Word{ID: text, Text: text, Clue: defaultClue, Tags: []string{}}
		if len(cols) > 5 && strings.TrimSpace(cols[5]) != "" {
			w.Clue = strings.TrimSpace(cols[5])
		}
		if len(cols) > 10 && cols[10] != "" {
			for _, t := range strings.Split(cols[10], ",") {
				if t = strings.TrimSpace(t); t != "" {
					w.Tags = append(w.Tags, t)
				}
			}
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return words, nil
}
