// package formatter provides functions to export collection data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jspicer/mediahub/internal/models"
	"github.com/jspicer/mediahub/internal/repositories"
)

// ExportToCSV converts a section's cross-user item listing to CSV with
// columns: Username, Title, Link, Added
func ExportToCSV(category models.Category, items []repositories.OwnedItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Username", "Title", "Link", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, owned := range items {
		record := []string{
			owned.Username,
			owned.Item.Title(),
			owned.Item.Link(),
			owned.Item.CreatedAt().Format("2006-01-02 15:04:05"),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a section's cross-user item listing to Markdown
func ExportToMarkdown(category models.Category, items []repositories.OwnedItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", category))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(items)))

	for i, owned := range items {
		linkPart := ""
		if owned.Item.Link() != "" {
			linkPart = fmt.Sprintf(" (%s)", owned.Item.Link())
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, owned.Username, owned.Item.Title(), linkPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a section's cross-user item listing to plain text
func ExportToText(category models.Category, items []repositories.OwnedItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Section: %s\n", category))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(items)))

	for i, owned := range items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, owned.Username, owned.Item.Title()))
	}

	return buf.Bytes(), nil
}

// Export renders the listing in the requested format, defaulting to CSV.
func Export(format string, category models.Category, items []repositories.OwnedItem) ([]byte, string, error) {
	switch format {
	case "markdown", "md":
		data, err := ExportToMarkdown(category, items)
		return data, "text/markdown; charset=utf-8", err
	case "text", "txt":
		data, err := ExportToText(category, items)
		return data, "text/plain; charset=utf-8", err
	case "", "csv":
		data, err := ExportToCSV(category, items)
		return data, "text/csv", err
	}
	return nil, "", fmt.Errorf("unsupported export format: %s", format)
}
