package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jspicer/mediahub/internal/shared"
)

func TestParseSuggestions(t *testing.T) {
	t.Run("plain json array", func(t *testing.T) {
		text := `[{"title": "Hyperion by Dan Simmons", "reason": "Epic scope."}]`
		suggestions, err := ParseSuggestions(text)
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(suggestions) != 1 || suggestions[0].Title != "Hyperion by Dan Simmons" {
			t.Errorf("unexpected suggestions: %+v", suggestions)
		}
	})

	t.Run("fenced output", func(t *testing.T) {
		text := "```json\n[{\"title\": \"Hyperion by Dan Simmons\", \"reason\": \"Epic scope.\"}]\n```"
		suggestions, err := ParseSuggestions(text)
		if err != nil {
			t.Fatalf("failed to parse fenced output: %v", err)
		}
		if len(suggestions) != 1 {
			t.Errorf("expected 1 suggestion, got %d", len(suggestions))
		}
	})

	t.Run("untitled entries dropped", func(t *testing.T) {
		text := `[{"title": "  ", "reason": "no title"}, {"title": "Dune by Frank Herbert", "reason": "fits"}]`
		suggestions, err := ParseSuggestions(text)
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}
		if len(suggestions) != 1 || suggestions[0].Title != "Dune by Frank Herbert" {
			t.Errorf("unexpected suggestions: %+v", suggestions)
		}
	})

	t.Run("prose instead of json", func(t *testing.T) {
		if _, err := ParseSuggestions("Here are some books you might like..."); !errors.Is(err, shared.ErrBackendUnavailable) {
			t.Errorf("expected ErrBackendUnavailable, got %v", err)
		}
	})
}

func TestUnconfiguredBooks(t *testing.T) {
	svc, err := NewGeminiBooks(context.Background(), shared.BooksConfig{})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	defer svc.Close()

	if svc.Configured() {
		t.Fatal("expected unconfigured service")
	}
	if _, err := svc.SuggestBooks(context.Background(), "Dune", 3); !errors.Is(err, shared.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
