package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/repositories"
)

func sampleListing(t *testing.T) []repositories.OwnedItem {
	t.Helper()

	first := models.NewItem(models.CategoryBooks, "u1", "Dune", "https://example.com/dune")
	first.SetCreatedAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	second := models.NewItem(models.CategoryBooks, "u2", "Hyperion", "")
	second.SetCreatedAt(time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC))

	return []repositories.OwnedItem{
		{Item: first, Username: "alice"},
		{Item: second, Username: "bob"},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(models.CategoryBooks, sampleListing(t))
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
		}
		if lines[0] != "Username,Title,Link,Added" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if !strings.HasPrefix(lines[1], "alice,Dune,https://example.com/dune,2026-03-01") {
			t.Errorf("unexpected first record: %s", lines[1])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(models.CategoryBooks, sampleListing(t))
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		out := string(data)
		if !strings.Contains(out, "# books") {
			t.Errorf("expected section heading, got %q", out)
		}
		if !strings.Contains(out, "1. alice - Dune (https://example.com/dune)") {
			t.Errorf("expected numbered entry with link, got %q", out)
		}
		if strings.Contains(out, "Hyperion (") {
			t.Error("linkless item should not render a link suffix")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(models.CategoryBooks, sampleListing(t))
		if err != nil {
			t.Fatalf("failed to export: %v", err)
		}

		out := string(data)
		if !strings.Contains(out, "Section: books") || !strings.Contains(out, "Items: 2") {
			t.Errorf("unexpected header: %q", out)
		}
		if !strings.Contains(out, "2. bob - Hyperion") {
			t.Errorf("expected numbered entry, got %q", out)
		}
	})

	t.Run("empty listing", func(t *testing.T) {
		data, err := ExportToCSV(models.CategoryBooks, nil)
		if err != nil {
			t.Fatalf("failed to export empty listing: %v", err)
		}
		if strings.TrimSpace(string(data)) != "Username,Title,Link,Added" {
			t.Errorf("expected header only, got %q", data)
		}
	})
}

func TestExport(t *testing.T) {
	cases := []struct {
		format      string
		contentType string
	}{
		{"", "text/csv"},
		{"csv", "text/csv"},
		{"markdown", "text/markdown; charset=utf-8"},
		{"md", "text/markdown; charset=utf-8"},
		{"text", "text/plain; charset=utf-8"},
		{"txt", "text/plain; charset=utf-8"},
	}

	for _, tc := range cases {
		data, contentType, err := Export(tc.format, models.CategoryBooks, sampleListing(t))
		if err != nil {
			t.Fatalf("format %q failed: %v", tc.format, err)
		}
		if contentType != tc.contentType {
			t.Errorf("format %q: expected content type %s, got %s", tc.format, tc.contentType, contentType)
		}
		if len(data) == 0 {
			t.Errorf("format %q produced no output", tc.format)
		}
	}

	if _, _, err := Export("xml", models.CategoryBooks, nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}
