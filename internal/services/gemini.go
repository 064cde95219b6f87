// Gemini implementation of [BookRecommender]
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jspicer/mediahub/internal/shared"
)

const (
	defaultBookModel = "gemini-1.5-flash-latest"

	bookSystemInstruction = "You are a book recommendation assistant. " +
		"Given one book title, suggest other real, published books a reader of it would enjoy. " +
		"Never suggest the given book itself. " +
		"Respond with a JSON array only, each element an object with exactly " +
		"two string fields: \"title\" (the book title followed by \" by \" and the author) " +
		"and \"reason\" (one short sentence on why it fits). No prose outside the JSON."
)

// GeminiBooks implements [BookRecommender] over a generative model.
type GeminiBooks struct {
	client *genai.Client
	model  string
}

// NewGeminiBooks creates the book recommendation backend.
//
// An empty API key returns an unconfigured service whose calls report
// [shared.ErrNotConfigured]; the rest of the application keeps working.
func NewGeminiBooks(ctx context.Context, cfg shared.BooksConfig) (*GeminiBooks, error) {
	model := cfg.Model
	if model == "" {
		model = defaultBookModel
	}

	if cfg.APIKey == "" {
		return &GeminiBooks{model: model}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiBooks{client: client, model: model}, nil
}

// Configured reports whether the client has a usable API key.
func (g *GeminiBooks) Configured() bool {
	return g.client != nil
}

// Close releases the underlying client.
func (g *GeminiBooks) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// SuggestBooks asks the model for n titles related to the basis title,
// constrained to machine-parseable JSON.
func (g *GeminiBooks) SuggestBooks(ctx context.Context, basisTitle string, n int) ([]BookSuggestion, error) {
	if !g.Configured() {
		return nil, fmt.Errorf("%w: book recommendation API key missing", shared.ErrNotConfigured)
	}
	if n <= 0 {
		n = 3
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(bookSystemInstruction)},
	}

	temp := float32(0.7)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	prompt := fmt.Sprintf("Suggest %d books for a reader who enjoyed %q.", n, basisTitle)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%w: book completion failed: %v", shared.ErrBackendUnavailable, err)
	}

	text := completionText(resp)
	if text == "" {
		return nil, fmt.Errorf("%w: empty completion", shared.ErrBackendUnavailable)
	}

	suggestions, err := ParseSuggestions(text)
	if err != nil {
		return nil, err
	}

	return suggestions, nil
}

// completionText concatenates the text parts of the first candidate.
func completionText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// ParseSuggestions decodes the model's JSON array, tolerating code fences
// some models wrap around structured output.
func ParseSuggestions(text string) ([]BookSuggestion, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var suggestions []BookSuggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("%w: malformed completion: %v", shared.ErrBackendUnavailable, err)
	}

	var valid []BookSuggestion
	for _, s := range suggestions {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		valid = append(valid, s)
	}

	return valid, nil
}
