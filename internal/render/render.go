// Package render converts resolved text into its output format.
package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown is the only hint that changes the text.
const Markdown = "md"

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render converts text according to hint. Markdown becomes HTML; every other
// hint returns text unchanged.
func Render(text, hint string) (string, error) {
	if !IsMarkdown(hint) {
		return text, nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

func IsMarkdown(hint string) bool {
	hint = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(hint), "."))
	return hint == Markdown || hint == "markdown"
}

// HintFromPath returns the format hint implied by a file's extension.
func HintFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}
