// Package engine runs the full pipeline over one document: scan the
// declarations out of the prose, compile them into entities, resolve the
// references left in the prose and project the Object Bank.
//
// The engine is synchronous and keeps no state between calls, so separate
// documents may be processed concurrently.
package engine

import (
	"scrivener/internal/bank"
	"scrivener/internal/parser"
	"scrivener/internal/resolve"
)

type Result struct {
	Text     string
	Bank     bank.Index
	Sections *parser.Sections
	Entities parser.Table
}

// Resolve returns the resolved text of document and hands its Object Bank to
// sink. A nil sink is allowed.
func Resolve(document string, sink bank.Sink) string {
	result := Process(document)
	if sink != nil {
		sink(result.Bank)
	}
	return result.Text
}

func Process(document string) *Result {
	return process(parser.Parse([]byte(document)), nil)
}

// ProcessDocument resolves an already parsed document. Observe, when set,
// sees every reference the resolver substitutes.
func ProcessDocument(doc *parser.Document, observe func(resolve.Reference)) *Result {
	return process(doc, observe)
}

func process(doc *parser.Document, observe func(resolve.Reference)) *Result {
	r := &resolve.Resolver{Table: doc.Entities, Observe: observe}
	return &Result{
		Text:     r.Resolve(doc.Sections.Segments),
		Bank:     bank.Project(doc.Entities),
		Sections: doc.Sections,
		Entities: doc.Entities,
	}
}
