package store

import (
	"errors"
	"testing"
)

func TestCheckReadOnly(t *testing.T) {
	tests := []struct {
		query string
		want  error
	}{
		{query: "SELECT * FROM documents", want: nil},
		{query: "  select name from entities", want: nil},
		{query: "WITH x AS (SELECT 1) SELECT * FROM x", want: nil},
		{query: "EXPLAIN SELECT 1", want: nil},
		{query: "DELETE FROM documents", want: ErrReadOnly},
		{query: "drop table entities", want: ErrReadOnly},
		{query: "", want: ErrEmptyQuery},
		{query: "   ", want: ErrEmptyQuery},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if err := CheckReadOnly(tt.query); !errors.Is(err, tt.want) {
				t.Fatalf("CheckReadOnly(%q) = %v, want %v", tt.query, err, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Hero "); got != "hero" {
		t.Fatalf("expected hero, got %q", got)
	}
}
