package main

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestParseClueResponse(t *testing.T) {
	words := []Word{
		{ID: "Haus", Text: "Haus"},
		{ID: "Hund", Text: "Hund"},
		{ID: "Maus", Text: "Maus"},
	}
	text := `[
		{"id": "Haus", "clue": " house "},
		{"id": "Hund", "clue": "der Hund, a dog"},
		{"id": "Maus", "clue": ""},
		{"id": "Katze", "clue": "cat"}
	]`

	clues, err := parseClueResponse(text, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clues) != 1 || clues["Haus"] != "house" {
		t.Fatalf("expected only the Haus clue, got %v", clues)
	}

	if _, err := parseClueResponse("not json", words); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestBuildCluePrompt(t *testing.T) {
	prompt := buildCluePrompt([]Word{{ID: "w1", Text: "Sonne"}})
	if !strings.Contains(prompt, `id="w1" word="Sonne"`) {
		t.Fatalf("prompt does not list the word:\n%s", prompt)
	}
}

func TestSuggestCluesIntegration(t *testing.T) {
	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		t.Skip("GCP_PROJECT_ID not set, skipping integration test")
	}

	ctx := context.Background()
	client, err := NewGeminiClient(ctx, projectID, "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()

	words := []Word{{ID: "1", Text: "Haus"}, {ID: "2", Text: "Sonne"}}
	clues, err := client.SuggestClues(ctx, words)
	if err != nil {
		t.Fatalf("suggest clues: %v", err)
	}
	for id, clue := range clues {
		t.Logf("%s: %s", id, clue)
	}
}
