package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *VocabularyDB {
	t.Helper()
	db, err := OpenVocabularyDB(filepath.Join(t.TempDir(), "vocab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestVocabularyAddWords(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	added, err := db.AddWords(ctx, starPool())
	require.NoError(t, err)
	assert.Equal(t, 10, added)

	// Known IDs are skipped.
	added, err = db.AddWords(ctx, append(starPool()[:2], Word{ID: "new", Text: "Neu"}))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	words, err := db.Words(ctx)
	require.NoError(t, err)
	require.Len(t, words, 11)
	assert.Equal(t, starPool()[0], words[0], "insertion order")
	assert.Equal(t, Word{ID: "new", Text: "Neu", Clue: "", Tags: []string{}}, words[10])
}

func TestVocabularyUpdateClue(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.AddWords(ctx, []Word{{ID: "Haus", Text: "Haus", Clue: defaultClue}})
	require.NoError(t, err)

	require.NoError(t, db.UpdateClue(ctx, "Haus", "house"))
	assert.Error(t, db.UpdateClue(ctx, "Maus", "mouse"))

	words, err := db.Words(ctx)
	require.NoError(t, err)
	assert.Equal(t, "house", words[0].Clue)
}

func TestVocabularyActiveFilter(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	tags, err := db.ActiveFilter(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)

	require.NoError(t, db.SetActiveFilter(ctx, []string{"A1", "Food"}))
	tags, err = db.ActiveFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "Food"}, tags)

	require.NoError(t, db.SetActiveFilter(ctx, nil))
	tags, err = db.ActiveFilter(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{}, tags)
}

func TestVocabularyInMemory(t *testing.T) {
	db, err := OpenVocabularyDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.AddWords(context.Background(), starPool())
	require.NoError(t, err)
	words, err := db.Words(context.Background())
	require.NoError(t, err)
	assert.Len(t, words, 10)
}
