package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"unicode/utf8"
)

const (
	// MinPoolSize is the number of words a pool needs before a crossword is attempted.
	MinPoolSize = 10
	// CandidateCount is how many words are offered to the layout builder.
	CandidateCount = 15
)

// ErrInsufficientPool is returned when the filtered pool is too small.
var ErrInsufficientPool = errors.New("not enough words")

// PoolError describes an undersized pool and the filter that produced it.
type PoolError struct {
	Filter []string
	Have   int
}

func (e *PoolError) Error() string {
	switch len(e.Filter) {
	case 0:
		return fmt.Sprintf("need at least %d words to generate crossword, have %d", MinPoolSize, e.Have)
	case 1:
		return fmt.Sprintf("not enough words with filter '%s' (need %d, have %d)", e.Filter[0], MinPoolSize, e.Have)
	default:
		return fmt.Sprintf("not enough words with filter '%d tags' (need %d, have %d)", len(e.Filter), MinPoolSize, e.Have)
	}
}

func (e *PoolError) Unwrap() error { return ErrInsufficientPool }

// FilterByTags keeps the words carrying at least one of tags. An empty tag
// list keeps everything.
func FilterByTags(pool []Word, tags []string) []Word {
	if len(tags) == 0 {
		return pool
	}
	out := make([]Word, 0, len(pool))
	for _, w := range pool {
		if w.HasAnyTag(tags) {
			out = append(out, w)
		}
	}
	return out
}

// SelectCandidates draws up to CandidateCount random words that fit a grid
// of the given size. Multi-word entries are skipped since a space cannot be
// typed into a cell.
func SelectCandidates(pool []Word, size int, rng *rand.Rand) []Word {
	fits := make([]Word, 0, len(pool))
	for _, w := range pool {
		if n := utf8.RuneCountInString(w.Text); n > 0 && n <= size && placeable(w.Text) {
			fits = append(fits, w)
		}
	}
	rng.Shuffle(len(fits), func(i, j int) { fits[i], fits[j] = fits[j], fits[i] })
	if len(fits) > CandidateCount {
		fits = fits[:CandidateCount]
	}
	return fits
}

// placeable reports whether every rune of text can be typed into a cell.
func placeable(text string) bool {
	for _, r := range text {
		if !typeable(r) {
			return false
		}
	}
	return true
}

// NewCrossword filters pool by tags, samples candidates and builds a layout.
func NewCrossword(pool []Word, tags []string, size int, rng *rand.Rand) (*Layout, error) {
	filtered := FilterByTags(pool, tags)
	if len(filtered) < MinPoolSize {
		return nil, &PoolError{Filter: tags, Have: len(filtered)}
	}

	layout, err := Generate(SelectCandidates(filtered, size, rng), size, rng)
	if err != nil {
		return nil, fmt.Errorf("generate crossword: %w", err)
	}
	return layout, nil
}
