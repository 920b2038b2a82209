package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrivener/internal/parser"
)

func testTable(t *testing.T) parser.Table {
	t.Helper()
	return parser.Compile(
		[]string{"p", "self", "a"},
		[]string{
			`{name: "ann", title: "captain of the watch", age: 31, tags: ["x"], home: {city: "oslo"}}`,
			`{self: "itself"}`,
			`{c: "deep"}`,
		},
	)
}

func TestResolve(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{name: "sentence case", segments: []string{"Dear @p:name^, bye.\n"}, want: "Dear Ann, bye."},
		{name: "title case", segments: []string{"the @p:title! rules\n"}, want: "the Captain Of The Watch rules"},
		{name: "verbatim", segments: []string{"@p:name rules\n"}, want: "ann rules"},
		{name: "unknown entity", segments: []string{"@missing:field here\n"}, want: "*unknown* here"},
		{name: "unknown field", segments: []string{"@p:nope here\n"}, want: "*unknown* here"},
		{name: "number field", segments: []string{"@p:age.\n"}, want: "*unknown*."},
		{name: "array field", segments: []string{"@p:tags\n"}, want: "*unknown*"},
		{name: "object field", segments: []string{"@p:home\n"}, want: "*unknown*"},
		{name: "unknown reference ignores modifier", segments: []string{"@missing:x^\n"}, want: "*unknown*"},
		{name: "no colon uses entity name as field", segments: []string{"@self ok\n"}, want: "itself ok"},
		{name: "no colon without matching field", segments: []string{"@p ok\n"}, want: "*unknown* ok"},
		{name: "first and last components", segments: []string{"@a:b:c\n"}, want: "deep"},
		{name: "terminator echoed", segments: []string{"(@p:name)\n"}, want: "(ann)"},
		{name: "adjacent references", segments: []string{"@p:name@p:name\n"}, want: "annann"},
		{name: "end of input closes reference", segments: []string{"@p:name"}, want: "ann"},
		{name: "lone at sign", segments: []string{"@ alone\n"}, want: "*unknown* alone"},
		{name: "escaped at sign", segments: []string{"mail me \\@home\n"}, want: "mail me @home"},
		{name: "escaped modifiers", segments: []string{"\\^ and \\!\n"}, want: "^ and !"},
		{name: "bare modifiers dropped", segments: []string{"Wow! Really^\n"}, want: "Wow Really"},
		{name: "backslash terminates reference", segments: []string{"@p:name\\^\n"}, want: "ann^"},
		{name: "segments joined by a space", segments: []string{"Hello", "Dear @p:name^, bye.\n"}, want: "Hello Dear Ann, bye."},
		{name: "segment end closes reference", segments: []string{"Hello @p:name", "again\n"}, want: "Hello ann again"},
		{name: "output trimmed", segments: []string{"  x  \n"}, want: "x"},
		{name: "non-ascii passes through", segments: []string{"naïve @p:name\n"}, want: "naïve ann"},
		{name: "no segments", segments: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.segments, table); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}

// Consecutive backslashes re-arm escape mode without emitting anything, so a
// run of backslashes vanishes instead of halving.
func TestResolve_ConsecutiveBackslashes(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		input string
		want  string
	}{
		{input: `a\\b`, want: "ab"},
		{input: `a\\\b`, want: "ab"},
		{input: `\\@p:name`, want: "@p:name"},
		{input: `end\`, want: "end"},
		{input: `\\\\`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Resolve([]string{tt.input + "\n"}, table); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolver_Observe(t *testing.T) {
	var refs []Reference
	r := &Resolver{
		Table:   testTable(t),
		Observe: func(ref Reference) { refs = append(refs, ref) },
	}

	got := r.Resolve([]string{"@p:name^ met @ghost:name and counted @p:age!\n"})
	if got != "Ann met *unknown* and counted *unknown*" {
		t.Fatalf("unexpected output %q", got)
	}

	want := []Reference{
		{ID: "p:name", Entity: "p", Field: "name", Modifier: ModifierSentence, Outcome: Resolved, Text: "Ann"},
		{ID: "ghost:name", Entity: "ghost", Field: "name", Modifier: ModifierNone, Outcome: UnknownEntity, Text: Unknown},
		{ID: "p:age", Entity: "p", Field: "age", Modifier: ModifierTitle, Outcome: NotString, Text: Unknown},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Fatalf("references mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	input := []string{"Plain prose, with punctuation; and (parens).\n"}
	first := Resolve(input, nil)
	second := Resolve([]string{first + "\n"}, nil)
	if first != second {
		t.Fatalf("expected idempotent output, got %q then %q", first, second)
	}
	if first != "Plain prose, with punctuation; and (parens)." {
		t.Fatalf("expected identity, got %q", first)
	}
}
