package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
)

const cluePrompt = `You write crossword clues for a German vocabulary trainer.

For each word below, give a short English definition or translation usable as a crossword clue.
Never include the word itself in its clue.

Answer with a JSON array only, no comment and no markdown:
[{"id": "<id>", "clue": "<clue>"}, ...]

Words:
`

// GeminiClient wraps the Google GenAI client for VertexAI.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a client using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewGeminiClient(ctx context.Context, projectID, region string) (*GeminiClient, error) {
	if region == "" {
		region = defaultRegion
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: defaultModel,
	}, nil
}

// Close releases resources held by the client.
func (g *GeminiClient) Close() error {
	return nil
}

// SuggestClues asks Gemini for a clue for each word and returns them by word ID.
// IDs missing from the answer are absent from the map.
func (g *GeminiClient) SuggestClues(ctx context.Context, words []Word) (map[string]string, error) {
	if len(words) == 0 {
		return map[string]string{}, nil
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildCluePrompt(words)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.3)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	return parseClueResponse(text, words)
}

func buildCluePrompt(words []Word) string {
	var b strings.Builder
	b.WriteString(cluePrompt)
	for _, w := range words {
		fmt.Fprintf(&b, "- id=%q word=%q\n", w.ID, w.Text)
	}
	return b.String()
}

// parseClueResponse decodes the model answer, keeping only clues for known
// IDs that do not give the answer away.
func parseClueResponse(text string, words []Word) (map[string]string, error) {
	var items []struct {
		ID   string `json:"id"`
		Clue string `json:"clue"`
	}
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("parse clues JSON: %w\nraw response: %s", err, text)
	}

	known := make(map[string]string, len(words))
	for _, w := range words {
		known[w.ID] = strings.ToLower(w.Text)
	}

	clues := make(map[string]string, len(items))
	for _, it := range items {
		answer, ok := known[it.ID]
		clue := strings.TrimSpace(it.Clue)
		if !ok || clue == "" || strings.Contains(strings.ToLower(clue), answer) {
			continue
		}
		clues[it.ID] = clue
	}
	return clues, nil
}
