package render

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	t.Run("markdown to html", func(t *testing.T) {
		got, err := Render("# Title\n\nSome *text*.", "md")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(got, "<h1>Title</h1>") {
			t.Fatalf("expected heading, got %q", got)
		}
		if !strings.Contains(got, "<em>text</em>") {
			t.Fatalf("expected emphasis, got %q", got)
		}
	})

	t.Run("hint is case-insensitive and tolerates a dot", func(t *testing.T) {
		for _, hint := range []string{"MD", ".md", ".Markdown", " md "} {
			got, err := Render("**b**", hint)
			if err != nil {
				t.Fatalf("hint %q: expected no error, got %v", hint, err)
			}
			if !strings.Contains(got, "<strong>b</strong>") {
				t.Fatalf("hint %q: expected html, got %q", hint, got)
			}
		}
	})

	t.Run("other hints pass through", func(t *testing.T) {
		for _, hint := range []string{"", "txt", "html", "mdx"} {
			got, err := Render("# not a heading", hint)
			if err != nil {
				t.Fatalf("hint %q: expected no error, got %v", hint, err)
			}
			if got != "# not a heading" {
				t.Fatalf("hint %q: expected unchanged text, got %q", hint, got)
			}
		}
	})

	t.Run("tables use github flavour", func(t *testing.T) {
		got, err := Render("| a | b |\n|---|---|\n| 1 | 2 |", "md")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(got, "<table>") {
			t.Fatalf("expected table, got %q", got)
		}
	})
}

func TestHintFromPath(t *testing.T) {
	tests := map[string]string{
		"notes/chapter.md": "md",
		"README.MD":        "md",
		"plain.txt":        "txt",
		"noext":            "",
		"archive.tar.gz":   "gz",
	}
	for path, want := range tests {
		if got := HintFromPath(path); got != want {
			t.Errorf("HintFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
