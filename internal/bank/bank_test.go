package bank

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrivener/internal/parser"
)

func TestProject(t *testing.T) {
	t.Run("fields sorted per entity", func(t *testing.T) {
		table := parser.Compile(
			[]string{"a", "b"},
			[]string{`{y: 2, x: 1}`, `{name: "bo", age: 4, tags: []}`},
		)
		want := Index{
			"a": {"x", "y"},
			"b": {"age", "name", "tags"},
		}
		if diff := cmp.Diff(want, Project(table)); diff != "" {
			t.Fatalf("index mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty table", func(t *testing.T) {
		index := Project(nil)
		if index == nil {
			t.Fatalf("expected non-nil index")
		}
		if len(index) != 0 {
			t.Fatalf("expected empty index, got %v", index)
		}
	})

	t.Run("entity without fields", func(t *testing.T) {
		index := Project(parser.Compile([]string{"e"}, []string{"{}"}))
		fields, ok := index["e"]
		if !ok {
			t.Fatalf("expected entity e in index")
		}
		if len(fields) != 0 {
			t.Fatalf("expected no fields, got %v", fields)
		}
	})
}

func TestIndexNames(t *testing.T) {
	index := Index{"zed": nil, "amy": nil, "kim": nil}
	if diff := cmp.Diff([]string{"amy", "kim", "zed"}, index.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect(t *testing.T) {
	var got Index
	sink := Collect(&got)
	sink(Index{"a": {"x"}})
	if diff := cmp.Diff(Index{"a": {"x"}}, got); diff != "" {
		t.Fatalf("collected mismatch (-want +got):\n%s", diff)
	}
}
