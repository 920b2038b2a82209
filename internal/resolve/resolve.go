package resolve

import (
	"strings"

	"scrivener/internal/parser"
)

// Unknown is substituted for any reference that cannot be resolved to a
// string field.
const Unknown = "*unknown*"

const (
	refPrefix    = '@'
	escape       = '\\'
	sentenceCase = '^'
	titleCase    = '!'
	fieldSep     = ":"
	separator    = ' '
)

const forbiddenNameChars = ",.<>!@#$%^&*()[]|\\;'\"?/`~+="

type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierSentence
	ModifierTitle
)

type Outcome int

const (
	Resolved Outcome = iota
	UnknownEntity
	UnknownField
	NotString
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case UnknownEntity:
		return "unknown entity"
	case UnknownField:
		return "unknown field"
	case NotString:
		return "not a string"
	default:
		return "unknown outcome"
	}
}

type Reference struct {
	ID       string
	Entity   string
	Field    string
	Modifier Modifier
	Outcome  Outcome
	Text     string
}

// Resolver substitutes references in text segments. Observe, when set, sees
// every reference in document order.
type Resolver struct {
	Table   parser.Table
	Observe func(Reference)
}

func Resolve(segments []string, table parser.Table) string {
	r := &Resolver{Table: table}
	return r.Resolve(segments)
}

// Resolve streams segments through the reference state machine. Consecutive
// segments are joined by a single space, which also closes a reference left
// open at the end of a segment.
func (r *Resolver) Resolve(segments []string) string {
	var (
		out       strings.Builder
		id        strings.Builder
		capturing bool
		escaping  bool
	)

	feed := func(c byte) {
		if c == escape {
			escaping = true
		}

		if capturing {
			if isTerminator(c) {
				capturing = false
				out.WriteString(r.substitute(id.String(), c))
				id.Reset()
			} else {
				id.WriteByte(c)
			}
		}

		if !escaping {
			switch {
			case c == refPrefix:
				capturing = true
			case !capturing && c != sentenceCase && c != titleCase:
				out.WriteByte(c)
			}
		} else if c != escape {
			out.WriteByte(c)
			escaping = false
		}
	}

	for i, segment := range segments {
		if i > 0 {
			feed(separator)
		}
		for j := 0; j < len(segment); j++ {
			feed(segment[j])
		}
	}
	if capturing {
		out.WriteString(r.substitute(id.String(), 0))
	}

	return strings.TrimSpace(out.String())
}

func (r *Resolver) substitute(id string, terminator byte) string {
	parts := strings.Split(id, fieldSep)
	ref := Reference{
		ID:       id,
		Entity:   parts[0],
		Field:    parts[len(parts)-1],
		Modifier: modifierFor(terminator),
		Text:     Unknown,
	}
	ref.Outcome = r.lookup(&ref)
	if r.Observe != nil {
		r.Observe(ref)
	}
	return ref.Text
}

func (r *Resolver) lookup(ref *Reference) Outcome {
	entity, ok := r.Table.Lookup(ref.Entity)
	if !ok {
		return UnknownEntity
	}
	value, ok := entity.Field(ref.Field)
	if !ok {
		return UnknownField
	}
	text, ok := value.AsString()
	if !ok {
		return NotString
	}
	switch ref.Modifier {
	case ModifierSentence:
		text = SentenceCase(text)
	case ModifierTitle:
		text = TitleCase(text)
	}
	ref.Text = text
	return Resolved
}

func modifierFor(terminator byte) Modifier {
	switch terminator {
	case sentenceCase:
		return ModifierSentence
	case titleCase:
		return ModifierTitle
	default:
		return ModifierNone
	}
}

func isTerminator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return strings.IndexByte(forbiddenNameChars, c) >= 0
}
