package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/tdx/internal/models"
	"github.com/desertthunder/tdx/internal/shared"
	th "github.com/desertthunder/tdx/internal/testing"
)

func testExport() Export {
	return Export{
		User: &models.User{
			Username:          "octocat",
			ProfilePicture:    true,
			ProfilePictureURL: "https://avatars.example.com/octocat.png",
		},
		Items: []models.TodoItem{
			{ID: 1, Content: "buy milk", Done: true},
			{ID: 2, Content: "walk dog, then cat"},
		},
	}
}

func TestExporters(t *testing.T) {
	export := testExport()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		want := "ID,Content,Done\n1,buy milk,true\n2,\"walk dog, then cat\",false\n"
		if got := string(data); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("with avatar", func(t *testing.T) {
			data, err := ExportToMarkdown(export)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# octocat's todo list",
				"![Avatar](https://avatars.example.com/octocat.png)",
				"**Items**: 2",
				"**Done**: 1",
				"## Items",
				"- [x] buy milk",
				"- [ ] walk dog, then cat",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got: %s", want, output)
				}
			}
		})

		t.Run("without user", func(t *testing.T) {
			data, err := ExportToMarkdown(Export{Items: export.Items})
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			if !strings.HasPrefix(output, "# Todo list") {
				t.Errorf("expected generic title, got: %s", output)
			}
			if strings.Contains(output, "![Avatar]") {
				t.Error("expected no avatar")
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Items: 2 (1 done)") {
			t.Errorf("Text missing summary, got: %s", output)
		}
		if !strings.Contains(output, "1. buy milk [done]") || !strings.Contains(output, "2. walk dog, then cat [open]") {
			t.Errorf("Text missing item listing, got: %s", output)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		for _, format := range []Format{CSV, Markdown, Text} {
			if _, err := Render(Export{}, format); err != nil {
				t.Errorf("Render(%s) failed on empty list: %v", format, err)
			}
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"csv", CSV},
		{"CSV", CSV},
		{"md", Markdown},
		{"markdown", Markdown},
		{"txt", Text},
		{"text", Text},
		{"", Text},
	}

	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := ParseFormat("pdf"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := Render(Export{}, Format("pdf")); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	export := testExport()

	t.Run("WithDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		path, err := WriteExport(export, Markdown, "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		if path != "todo.md" {
			t.Errorf("Expected 'todo.md', got '%s'", path)
		}

		th.AssertFileExists(t, path)
		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "- [x] buy milk") {
			t.Errorf("export missing items, got: %s", content)
		}
	})

	t.Run("WithCustomPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "exports", "mine.csv")

		got, err := WriteExport(export, CSV, path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		if got != path {
			t.Errorf("Expected '%s', got '%s'", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("unwritable path", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if _, err := WriteExport(export, Text, blocker); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		if _, err := WriteExport(export, Text, filepath.Join(blocker, "nested.txt")); err == nil {
			t.Error("expected error writing beneath a regular file")
		}
	})
}
