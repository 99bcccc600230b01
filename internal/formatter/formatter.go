// package formatter provides functions to export todo items to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "md"
	Text     Format = "txt"
)

// ParseFormat accepts a format name or a common alias for it.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "md", "markdown":
		return Markdown, nil
	case "txt", "text", "":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// Export is a snapshot of one user's list.
type Export struct {
	User  *models.User
	Items []models.TodoItem
}

// Done counts the completed items.
func (e Export) Done() int {
	n := 0
	for _, it := range e.Items {
		if it.Done {
			n++
		}
	}
	return n
}

func (e Export) title() string {
	if e.User != nil && e.User.Username != "" {
		return e.User.Username + "'s todo list"
	}
	return "Todo list"
}

// ExportToCSV converts an Export to CSV format with columns: ID, Content, Done
func ExportToCSV(export Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Content", "Done"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			strconv.FormatInt(item.ID, 10),
			item.Content,
			strconv.FormatBool(item.Done),
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

// ExportToMarkdown converts an Export to a Markdown task list.
func ExportToMarkdown(export Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.title()))

	if export.User != nil {
		if avatar, ok := export.User.Avatar(); ok {
			buf.WriteString(fmt.Sprintf("![Avatar](%s)\n\n", avatar))
		}
	}

	buf.WriteString(fmt.Sprintf("**Items**: %d\n", len(export.Items)))
	buf.WriteString(fmt.Sprintf("**Done**: %d\n\n", export.Done()))

	buf.WriteString("## Items\n\n")
	for _, item := range export.Items {
		mark := " "
		if item.Done {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s\n", mark, item.Content))
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(export.title() + "\n")
	buf.WriteString(fmt.Sprintf("Items: %d (%d done)\n\n", len(export.Items), export.Done()))

	for i, item := range export.Items {
		status := "open"
		if item.Done {
			status = "done"
		}
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, item.Content, status))
	}

	return buf.Bytes(), nil
}

// Render encodes export in format.
func Render(export Export, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(export)
	case Markdown:
		return ExportToMarkdown(export)
	case Text:
		return ExportToText(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders export and writes it to path, creating parent directories as needed.
//
// Defaults to todo.{format} as the filename.
func WriteExport(export Export, format Format, path string) (string, error) {
	if path == "" {
		path = "todo." + string(format)
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
