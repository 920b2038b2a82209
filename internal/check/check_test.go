package check

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"scrivener/internal/parser"
	"scrivener/internal/store"
)

type mockShared struct {
	summaries []store.EntitySummary
	err       error
}

func (m *mockShared) ListSharedEntities(ctx context.Context, collection string) ([]store.EntitySummary, error) {
	return m.summaries, m.err
}

func TestDocument(t *testing.T) {
	tests := []struct {
		name  string
		input string
		codes []string
	}{
		{name: "clean", input: `def p {name:"Ann"} @p:name^`, codes: nil},
		{name: "invalid block", input: `def p {name: what} text`, codes: []string{CodeInvalidDataBlock}},
		{name: "non-adjacent block", input: `def p [1, 2] {x:"y"} text`, codes: nil},
		{name: "unterminated", input: `def p {name:"Ann"`, codes: []string{CodeInvalidDataBlock, CodeUnterminatedBlock}},
		{name: "unpaired", input: `def p text without a block `, codes: []string{CodeUnpairedDeclaration}},
		{name: "unnamed", input: `{a:"1"} text`, codes: []string{CodeUnnamedBlock}},
		{name: "duplicate", input: `def p {a:"1"} def p {a:"2"} @p:a`, codes: []string{CodeDuplicateDeclaration}},
		{name: "unknown entity", input: `@nobody:name`, codes: []string{CodeUnknownEntity}},
		{name: "unknown field", input: `def p {a:"1"} @p:b`, codes: []string{CodeUnknownField}},
		{name: "non-string field", input: `def p {a:1} @p:a`, codes: []string{CodeNonStringField}},
		{name: "escaped reference ignored", input: `\@nobody:name`, codes: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Document(parser.Parse([]byte(tt.input)))
			if len(issues) != len(tt.codes) {
				t.Fatalf("expected %d issues, got %+v", len(tt.codes), issues)
			}
			for i, code := range tt.codes {
				if issues[i].Code != code {
					t.Fatalf("issue %d: expected %s, got %s", i, code, issues[i].Code)
				}
			}
		})
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("clean file", func(t *testing.T) {
		report, err := Run(ctx, []string{filepath.Join("testdata", "clean.md")}, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if len(report.Issues) != 0 {
			t.Fatalf("expected no issues, got %+v", report.Issues)
		}
		if report.HasErrors() {
			t.Fatalf("expected no errors")
		}
	})

	t.Run("broken file", func(t *testing.T) {
		path := filepath.Join("testdata", "broken.md")
		report, err := Run(ctx, []string{path}, nil)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if !report.HasErrors() {
			t.Fatalf("expected errors")
		}
		codes := make(map[string]int)
		for _, issue := range report.Issues {
			codes[issue.Code]++
			if issue.FilePath != path {
				t.Fatalf("expected file path on issue, got %+v", issue)
			}
		}
		for _, code := range []string{CodeInvalidDataBlock, CodeNonStringField, CodeUnknownEntity, CodeUnknownField} {
			if codes[code] != 1 {
				t.Fatalf("expected one %s issue, got %v", code, codes)
			}
		}
	})

	t.Run("shared entities reported as warnings", func(t *testing.T) {
		shared := &mockShared{summaries: []store.EntitySummary{
			{Name: "hero", Collection: "chapters", SourceFile: "a.md"},
			{Name: "hero", Collection: "chapters", SourceFile: "b.md"},
		}}
		report, err := Run(ctx, nil, shared)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if len(report.Warnings()) != 2 || report.HasErrors() {
			t.Fatalf("expected two warnings, got %+v", report.Issues)
		}
		if report.Issues[0].Code != CodeSharedEntity {
			t.Fatalf("expected shared entity code, got %s", report.Issues[0].Code)
		}
	})

	t.Run("store error", func(t *testing.T) {
		_, err := Run(ctx, nil, &mockShared{err: errors.New("boom")})
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Run(ctx, []string{filepath.Join(t.TempDir(), "none.md")}, nil); err == nil {
			t.Fatalf("expected error")
		}
	})
}
