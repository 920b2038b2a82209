package sqlite

import (
	"testing"
)

func TestConvertWebsearchToFTS5(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple term", input: "harbour", expected: "harbour"},
		{name: "multiple terms", input: "quiet harbour", expected: "quiet AND harbour"},
		{name: "explicit AND", input: "harbour AND captain", expected: "harbour AND captain"},
		{name: "explicit OR", input: "harbour OR captain", expected: "harbour OR captain"},
		{name: "negation", input: "harbour -storm", expected: "harbour NOT storm"},
		{name: "phrase", input: `"quiet harbour"`, expected: `"quiet harbour"`},
		{name: "phrase with other term", input: `"quiet harbour" captain`, expected: `"quiet harbour" AND captain`},
		{name: "phrase after operator", input: `captain OR "quiet harbour"`, expected: `captain OR "quiet harbour"`},
		{name: "prefix search", input: "harb*", expected: "harb*"},
		{
			name:     "complex query",
			input:    `"quiet harbour" -storm captain OR watch`,
			expected: `"quiet harbour" NOT storm AND captain OR watch`,
		},
		{name: "NOT operator", input: "harbour NOT storm", expected: "harbour NOT storm"},
		{name: "tabs separate terms", input: "harbour\tcaptain", expected: "harbour AND captain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := convertWebsearchToFTS5(tt.input)
			if result != tt.expected {
				t.Errorf("convertWebsearchToFTS5(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
