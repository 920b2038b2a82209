package store

import (
	"strings"
	"time"

	"scrivener/internal/bank"
)

// DocumentInput is one built document. Bank replaces every entity previously
// stored for the same source file.
type DocumentInput struct {
	SourceFile string
	Collection string
	SourceHash string
	Format     string
	Resolved   string
	Bank       bank.Index
}

type Document struct {
	SourceFile string
	Collection string
	SourceHash string
	Format     string
	Resolved   string
	BuiltAt    time.Time
	Entities   []EntitySummary
}

type EntitySummary struct {
	Name       string
	Collection string
	SourceFile string
	Fields     []string
}

type SearchResult struct {
	SourceFile string
	Collection string
	Score      float64
	Snippet    string
}

// NormalizeName is the key entity names are matched on.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
